// Package robokassa implements the merchant side of the Robokassa
// payment gateway protocol: the classic keyed-hash signature scheme,
// the signed-token notification scheme, and the HTTP client for
// operation status, refunds and second (fiscal) receipts.
package robokassa

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ResultParams are the fields the gateway sends on the classic channels
// (server-to-server result notification and browser success return).
// Shp holds the user-defined passthrough params, keys including the
// "Shp_" prefix.
type ResultParams struct {
	OutSum        string
	InvID         string
	Signature     string
	PaymentMethod string
	CurrencyLabel string
	Shp           map[string]string
}

// Sign computes the classic signature: MD5 over the colon-joined base
// values followed by the shared password and the Shp_ params sorted by
// key, each rendered as "key=value".
func Sign(password string, shp map[string]string, base ...string) string {
	parts := append([]string{}, base...)
	parts = append(parts, password)

	keys := make([]string, 0, len(shp))
	for k := range shp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, shp[k]))
	}

	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// VerifyResult checks the signature of a result/success notification
// against the given password. Comparison is case-insensitive, matching
// the gateway, which sends uppercase hex.
func VerifyResult(p ResultParams, password string) bool {
	if p.Signature == "" {
		return false
	}
	expected := Sign(password, p.Shp, p.OutSum, p.InvID)
	return strings.EqualFold(expected, p.Signature)
}

// SignPaymentLink signs the outbound payment-page URL:
// MerchantLogin:OutSum:InvId:password[:Shp...].
func SignPaymentLink(merchantLogin, outSum, invID, password string, shp map[string]string) string {
	return Sign(password, shp, merchantLogin, outSum, invID)
}

// signStateRequest signs the operation-state query:
// MerchantLogin:InvoiceID:password.
func signStateRequest(merchantLogin, invID, password string) string {
	return Sign(password, nil, merchantLogin, invID)
}
