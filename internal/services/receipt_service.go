package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	"github.com/AlexeiFed/waxhands-sub002/pkg/robokassa"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

// ReceiptServiceInterface issues the second (post-service) fiscal
// receipt for a paid invoice. Best-effort: callers log failures and
// never roll back the payment.
type ReceiptServiceInterface interface {
	IssueForInvoice(ctx context.Context, invoiceID uuid.UUID) error
}

type ReceiptService struct {
	invoiceRepo repositories.IInvoiceRepository
	accountRepo repositories.IAccountRepository
	gateway     Gateway
	logger      *zap.Logger
}

func NewReceiptService(
	invoiceRepo repositories.IInvoiceRepository,
	accountRepo repositories.IAccountRepository,
	gateway Gateway,
	logger *zap.Logger,
) ReceiptServiceInterface {
	return &ReceiptService{
		invoiceRepo: invoiceRepo,
		accountRepo: accountRepo,
		gateway:     gateway,
		logger:      logger,
	}
}

func (s *ReceiptService) IssueForInvoice(ctx context.Context, invoiceID uuid.UUID) error {

	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return fmt.Errorf("receipt: invoice %s not found", invoiceID)
	}
	if invoice.Status != db_models.InvoiceStatusPaid {
		return fmt.Errorf("receipt: invoice %s is not paid", invoiceID)
	}
	if invoice.InvID == nil {
		return fmt.Errorf("receipt: invoice %s has no gateway id", invoiceID)
	}

	receipt := robokassa.Receipt{
		// The second receipt reuses the gateway invoice id as its
		// document id, so re-issuing is idempotent on the fiscal side.
		ID:       *invoice.InvID,
		OriginID: *invoice.InvID,
		Total:    robokassa.FormatOutSum(invoice.AmountMinor),
	}

	account, err := s.accountRepo.GetByID(ctx, invoice.AccountID)
	if err == nil && account != nil {
		receipt.Email = account.Email
	}

	for i := range invoice.Participants {
		p := &invoice.Participants[i]
		for _, li := range append(p.StyleItems(), p.OptionItems()...) {
			receipt.Items = append(receipt.Items, robokassa.ReceiptItem{
				Name:     li.Name,
				Quantity: li.Quantity,
				Sum:      robokassa.FormatOutSum(li.UnitPriceMinor * int64(li.Quantity)),
				Tax:      "none",
			})
		}
	}

	if err := s.gateway.AttachReceipt(ctx, receipt); err != nil {
		return fmt.Errorf("receipt: attach for invoice %s: %w", invoiceID, err)
	}

	paidAt := ""
	if invoice.PaidAt != nil {
		paidAt = utils.FormatRFC3339MSK(utils.FromUnixSecondsMSK(*invoice.PaidAt))
	}
	s.logger.Info("fiscal receipt issued",
		zap.String("invoice_id", invoiceID.String()),
		zap.Int64("inv_id", *invoice.InvID),
		zap.String("paid_at", paidAt))
	return nil
}
