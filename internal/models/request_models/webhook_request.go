package request_models

// TokenWebhookRequest is the secondary notification channel body.
type TokenWebhookRequest struct {
	Token string `json:"token" binding:"required"`
}
