package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HTTPPlatformNotifier posts "invoice paid" events to the platform's
// internal events endpoint (chat, dashboards and push delivery live
// behind it).
type HTTPPlatformNotifier struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

func NewHTTPPlatformNotifier(endpoint string, logger *zap.Logger) *HTTPPlatformNotifier {
	return &HTTPPlatformNotifier{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
	}
}

type invoicePaidEvent struct {
	Type      string    `json:"type"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	AccountID uuid.UUID `json:"account_id"`
}

func (n *HTTPPlatformNotifier) InvoicePaid(ctx context.Context, invoiceID, accountID uuid.UUID) error {
	if n.endpoint == "" {
		n.logger.Debug("platform events endpoint not configured, skipping invoice paid event")
		return nil
	}

	payload, err := json.Marshal(invoicePaidEvent{
		Type:      "invoice.paid",
		InvoiceID: invoiceID,
		AccountID: accountID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("platform event delivery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("platform event delivery: HTTP %d", resp.StatusCode)
	}
	return nil
}
