package response_models

type PaymentLinkResponse struct {
	InvID      int64  `json:"inv_id"`
	PaymentURL string `json:"payment_url"`
}
