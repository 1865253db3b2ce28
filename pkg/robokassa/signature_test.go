package robokassa

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestSign(t *testing.T) {
	t.Run("base values joined with password", func(t *testing.T) {
		got := Sign("secret", nil, "1500.00", "42")
		assert.Equal(t, md5hex("1500.00:42:secret"), got)
	})

	t.Run("shp params appended sorted by key", func(t *testing.T) {
		shp := map[string]string{
			"Shp_invoice": "abc",
			"Shp_a":       "1",
		}
		got := Sign("secret", shp, "1500.00", "42")
		assert.Equal(t, md5hex("1500.00:42:secret:Shp_a=1:Shp_invoice=abc"), got)
	})

	t.Run("order of map insertion is irrelevant", func(t *testing.T) {
		a := Sign("pw", map[string]string{"Shp_x": "1", "Shp_y": "2"}, "10.00", "7")
		b := Sign("pw", map[string]string{"Shp_y": "2", "Shp_x": "1"}, "10.00", "7")
		assert.Equal(t, a, b)
	})
}

func TestVerifyResult(t *testing.T) {
	shp := map[string]string{"Shp_invoice": "11111111-2222-3333-4444-555555555555"}
	params := ResultParams{
		OutSum: "1500.50",
		InvID:  "123456",
		Shp:    shp,
	}
	params.Signature = Sign("password2", shp, params.OutSum, params.InvID)

	t.Run("valid signature accepted", func(t *testing.T) {
		assert.True(t, VerifyResult(params, "password2"))
	})

	t.Run("uppercase hex accepted", func(t *testing.T) {
		upper := params
		upper.Signature = strings.ToUpper(upper.Signature)
		assert.True(t, VerifyResult(upper, "password2"))
	})

	t.Run("tampered amount rejected", func(t *testing.T) {
		tampered := params
		tampered.OutSum = "1.00"
		assert.False(t, VerifyResult(tampered, "password2"))
	})

	t.Run("tampered shp param rejected", func(t *testing.T) {
		tampered := params
		tampered.Shp = map[string]string{"Shp_invoice": "other"}
		assert.False(t, VerifyResult(tampered, "password2"))
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		assert.False(t, VerifyResult(params, "password1"))
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		missing := params
		missing.Signature = ""
		assert.False(t, VerifyResult(missing, "password2"))
	})
}

func TestSignPaymentLink(t *testing.T) {
	got := SignPaymentLink("demo", "300.00", "99", "password1", map[string]string{"Shp_invoice": "x"})
	assert.Equal(t, md5hex("demo:300.00:99:password1:Shp_invoice=x"), got)
}
