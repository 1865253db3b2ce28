package robokassa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Operation state codes reported by the gateway.
const (
	StateInitiated = 5   // operation initiated, money not sent
	StateCancelled = 10  // money not received, operation cancelled
	StateReceived  = 50  // money received, held by the gateway
	StateReturned  = 60  // money returned to the payer
	StateSuspended = 80  // operation suspended
	StateCompleted = 100 // money credited to the merchant
)

// Config holds merchant credentials and endpoints. Password1 signs
// outbound payment links and success returns, Password2 signs result
// notifications and service calls, TokenSecret verifies the signed-token
// webhook channel.
type Config struct {
	MerchantLogin string
	Password1     string
	Password2     string
	TokenSecret   string
	BaseURL       string // payment page + XML services, default https://auth.robokassa.ru
	ServicesURL   string // refund and fiscal receipt APIs, default https://services.robokassa.ru
	Timeout       time.Duration
	IsTest        bool
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "https://auth.robokassa.ru"
}

func (c Config) servicesURL() string {
	if c.ServicesURL != "" {
		return c.ServicesURL
	}
	return "https://services.robokassa.ru"
}

// APIError is a failure the gateway itself reported, as opposed to a
// transport problem. The message is safe to surface to callers.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) TokenSecret() string { return c.cfg.TokenSecret }

// PaymentURL builds the signed payment-page URL for an invoice.
func (c *Client) PaymentURL(invID int64, amountMinor int64, description string, shp map[string]string) string {
	outSum := FormatOutSum(amountMinor)
	inv := strconv.FormatInt(invID, 10)

	q := url.Values{}
	q.Set("MerchantLogin", c.cfg.MerchantLogin)
	q.Set("OutSum", outSum)
	q.Set("InvId", inv)
	q.Set("Description", description)
	q.Set("SignatureValue", SignPaymentLink(c.cfg.MerchantLogin, outSum, inv, c.cfg.Password1, shp))
	for k, v := range shp {
		q.Set(k, v)
	}
	if c.cfg.IsTest {
		q.Set("IsTest", "1")
	}

	return c.cfg.baseURL() + "/Merchant/Index.aspx?" + q.Encode()
}

// OperationState is the gateway's view of one payment operation.
type OperationState struct {
	StateCode     int
	OpKey         string
	PaymentMethod string
	IncSumMinor   int64
	CurrencyLabel string
}

type operationStateResponse struct {
	XMLName xml.Name `xml:"OperationStateResponse"`
	Result  struct {
		Code        int    `xml:"Code"`
		Description string `xml:"Description"`
	} `xml:"Result"`
	State struct {
		Code int `xml:"Code"`
	} `xml:"State"`
	Info struct {
		IncCurrLabel  string `xml:"IncCurrLabel"`
		IncSum        string `xml:"IncSum"`
		OpKey         string `xml:"OpKey"`
		PaymentMethod struct {
			Code string `xml:"Code"`
		} `xml:"PaymentMethod"`
	} `xml:"Info"`
}

// QueryOperationState asks the gateway for the state of the payment
// operation recorded under our invoice id.
func (c *Client) QueryOperationState(ctx context.Context, invID int64) (*OperationState, error) {
	inv := strconv.FormatInt(invID, 10)

	q := url.Values{}
	q.Set("MerchantLogin", c.cfg.MerchantLogin)
	q.Set("InvoiceID", inv)
	q.Set("Signature", signStateRequest(c.cfg.MerchantLogin, inv, c.cfg.Password2))

	endpoint := c.cfg.baseURL() + "/Merchant/WebService/Service.asmx/OpStateExt?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("operation state request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("operation state read: %w", err)
	}

	var parsed operationStateResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("operation state decode: %w", err)
	}
	if parsed.Result.Code != 0 {
		return nil, &APIError{Message: parsed.Result.Description}
	}

	state := &OperationState{
		StateCode:     parsed.State.Code,
		OpKey:         parsed.Info.OpKey,
		PaymentMethod: parsed.Info.PaymentMethod.Code,
		CurrencyLabel: parsed.Info.IncCurrLabel,
	}
	if parsed.Info.IncSum != "" {
		if minor, err := ParseOutSum(parsed.Info.IncSum); err == nil {
			state.IncSumMinor = minor
		}
	}

	return state, nil
}

// RefundItem mirrors an invoice line for a full-cancellation refund.
type RefundItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Sum      string `json:"sum"`
}

// RefundSubmission asks the gateway to return money for one operation.
type RefundSubmission struct {
	OpKey    string
	SumMinor int64
	Items    []RefundItem
}

// RefundResult is the gateway's acknowledgement of a refund submission.
type RefundResult struct {
	RequestID string
}

type refundRequestBody struct {
	MerchantLogin string       `json:"merchantLogin"`
	OpKey         string       `json:"opKey"`
	Sum           string       `json:"sum"`
	InvoiceItems  []RefundItem `json:"invoiceItems,omitempty"`
	Signature     string       `json:"signature"`
}

type refundResponseBody struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage"`
	RequestID    string `json:"requestId"`
}

// SubmitRefund sends a refund request. A gateway-side rejection comes
// back as *APIError with the gateway's message.
func (c *Client) SubmitRefund(ctx context.Context, sub RefundSubmission) (*RefundResult, error) {
	sum := FormatOutSum(sub.SumMinor)
	body := refundRequestBody{
		MerchantLogin: c.cfg.MerchantLogin,
		OpKey:         sub.OpKey,
		Sum:           sum,
		InvoiceItems:  sub.Items,
		Signature:     Sign(c.cfg.Password2, nil, c.cfg.MerchantLogin, sub.OpKey, sum),
	}

	var parsed refundResponseBody
	if err := c.postJSON(ctx, c.cfg.servicesURL()+"/Refund/Request", body, &parsed); err != nil {
		return nil, err
	}
	if !parsed.Success {
		return nil, &APIError{Message: parsed.ErrorMessage}
	}

	return &RefundResult{RequestID: parsed.RequestID}, nil
}

// Refund request outcome statuses reported by the gateway.
const (
	RefundStateProcessing = "Processing"
	RefundStateCompleted  = "Completed"
	RefundStateFailed     = "Failed"
)

// RefundState is the gateway-reported outcome of a submitted refund.
type RefundState struct {
	Status       string
	ErrorMessage string
}

type refundStateRequestBody struct {
	MerchantLogin string `json:"merchantLogin"`
	RequestID     string `json:"requestId"`
	Signature     string `json:"signature"`
}

type refundStateResponseBody struct {
	Success      bool   `json:"success"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
}

// QueryRefundState polls the outcome of a previously submitted refund.
func (c *Client) QueryRefundState(ctx context.Context, requestID string) (*RefundState, error) {
	body := refundStateRequestBody{
		MerchantLogin: c.cfg.MerchantLogin,
		RequestID:     requestID,
		Signature:     Sign(c.cfg.Password2, nil, c.cfg.MerchantLogin, requestID),
	}

	var parsed refundStateResponseBody
	if err := c.postJSON(ctx, c.cfg.servicesURL()+"/Refund/State", body, &parsed); err != nil {
		return nil, err
	}
	if !parsed.Success {
		return nil, &APIError{Message: parsed.ErrorMessage}
	}

	return &RefundState{Status: parsed.Status, ErrorMessage: parsed.ErrorMessage}, nil
}

// ReceiptItem is one fiscal receipt line.
type ReceiptItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Sum      string `json:"sum"`
	Tax      string `json:"tax"`
}

// Receipt is the second (post-service) fiscal receipt required once a
// prepaid service is rendered.
type Receipt struct {
	ID       int64         `json:"id"`
	OriginID int64         `json:"originId"`
	Total    string        `json:"total"`
	Items    []ReceiptItem `json:"items"`
	Email    string        `json:"client.email,omitempty"`
}

type receiptAttachBody struct {
	Content   string `json:"content"`
	Signature string `json:"signature"`
}

type receiptAttachResponse struct {
	ResultCode        int    `json:"resultCode"`
	ResultDescription string `json:"resultDescription"`
}

// AttachReceipt registers a second fiscal receipt with the gateway. The
// payload travels base64-encoded and signed with password #1.
func (c *Client) AttachReceipt(ctx context.Context, receipt Receipt) error {
	payload, err := json.Marshal(receipt)
	if err != nil {
		return err
	}

	content := base64.StdEncoding.EncodeToString(payload)
	body := receiptAttachBody{
		Content:   content,
		Signature: Sign(c.cfg.Password1, nil, content),
	}

	var parsed receiptAttachResponse
	if err := c.postJSON(ctx, c.cfg.servicesURL()+"/Receipt/Attach", body, &parsed); err != nil {
		return err
	}
	if parsed.ResultCode != 0 {
		return &APIError{Message: parsed.ResultDescription}
	}

	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gateway response read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Message: fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("gateway response decode: %w", err)
	}
	return nil
}
