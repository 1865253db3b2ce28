package services

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/models/response_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	"github.com/AlexeiFed/waxhands-sub002/pkg/robokassa"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

// ShpInvoiceParam carries our internal invoice id through the gateway
// as a passthrough param, so notifications can be correlated even
// before the gateway invoice id is recorded.
const ShpInvoiceParam = "Shp_invoice"

type PaymentConfig struct {
	Password1      string // signs payment links and success returns
	Password2      string // signs result notifications
	TokenSecret    string // verifies the signed-token channel
	SuccessPageURL string
	FailPageURL    string
}

// TokenOutcome is the result of the secondary notification channel.
// PaymentFailed means the gateway reported a non-success state; the
// caller must still acknowledge with 200 so the gateway stops retrying.
type TokenOutcome struct {
	PaymentFailed bool
	InvID         int64
}

type PaymentServiceInterface interface {
	CreatePaymentLink(ctx context.Context, caller utils.CallerContext, invoiceID uuid.UUID) (*response_models.PaymentLinkResponse, error)

	// HandleResultNotification consumes the primary server-to-server
	// notification and returns the literal acknowledgement body the
	// gateway protocol requires ("OK<InvId>").
	HandleResultNotification(ctx context.Context, params robokassa.ResultParams) (string, error)

	HandleTokenNotification(ctx context.Context, token string) (*TokenOutcome, error)

	// SuccessReturnURL verifies the advisory browser return and yields
	// the redirect target for the success page.
	SuccessReturnURL(params robokassa.ResultParams) (string, error)
	FailReturnURL(params robokassa.ResultParams) string
}

type PaymentService struct {
	invoiceRepo repositories.IInvoiceRepository
	gateway     Gateway
	dispatcher  SideEffectDispatcher
	cfg         PaymentConfig
	logger      *zap.Logger
}

func NewPaymentService(
	invoiceRepo repositories.IInvoiceRepository,
	gateway Gateway,
	dispatcher SideEffectDispatcher,
	cfg PaymentConfig,
	logger *zap.Logger,
) PaymentServiceInterface {
	return &PaymentService{
		invoiceRepo: invoiceRepo,
		gateway:     gateway,
		dispatcher:  dispatcher,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *PaymentService) CreatePaymentLink(ctx context.Context, caller utils.CallerContext, invoiceID uuid.UUID) (*response_models.PaymentLinkResponse, error) {

	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if invoice == nil {
		return nil, utils.ErrInvoiceNotFound
	}
	if !caller.Owns(invoice.AccountID) {
		return nil, utils.ErrAccessDenied
	}
	if invoice.Status != db_models.InvoiceStatusPending {
		return nil, utils.ErrInvoiceNotPending
	}

	invID, err := s.ensureInvID(ctx, invoice)
	if err != nil {
		return nil, err
	}

	shp := map[string]string{ShpInvoiceParam: invoice.ID.String()}
	link := s.gateway.PaymentURL(invID, invoice.AmountMinor, fmt.Sprintf("Workshop booking %d", invID), shp)

	return &response_models.PaymentLinkResponse{
		InvID:      invID,
		PaymentURL: link,
	}, nil
}

// ensureInvID assigns a gateway invoice id on the first payment
// attempt. Concurrent attempts race on a conditional update; the loser
// re-reads the winner's id.
func (s *PaymentService) ensureInvID(ctx context.Context, invoice *db_models.Invoice) (int64, error) {
	if invoice.InvID != nil {
		return *invoice.InvID, nil
	}

	// Unix seconds plus a short random suffix keeps the id within the
	// gateway's numeric range while avoiding collisions.
	candidate := time.Now().Unix()%1_000_000_000*10_000 + int64(rand.Intn(9000)+1000)

	won, err := s.invoiceRepo.AssignInvID(ctx, invoice.ID, candidate)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}
	if won {
		return candidate, nil
	}

	current, err := s.invoiceRepo.GetByID(ctx, invoice.ID)
	if err != nil || current == nil || current.InvID == nil {
		return 0, utils.ErrDatabaseError
	}
	return *current.InvID, nil
}

func (s *PaymentService) HandleResultNotification(ctx context.Context, params robokassa.ResultParams) (string, error) {

	if !robokassa.VerifyResult(params, s.cfg.Password2) {
		return "", utils.ErrInvalidSignature
	}

	invID, err := strconv.ParseInt(params.InvID, 10, 64)
	if err != nil {
		return "", utils.ErrInvalidSignature
	}
	amountMinor, err := robokassa.ParseOutSum(params.OutSum)
	if err != nil {
		return "", utils.ErrInvalidSignature
	}

	invoice, err := s.resolveInvoice(ctx, invID, params.Shp[ShpInvoiceParam])
	if err != nil {
		return "", err
	}
	if invoice == nil {
		return "", utils.ErrInvoiceNotFound
	}

	if amountMinor != invoice.AmountMinor {
		s.logger.Warn("result notification amount mismatch",
			zap.Int64("inv_id", invID),
			zap.Int64("notified_minor", amountMinor),
			zap.Int64("invoice_minor", invoice.AmountMinor))
		return "", utils.ErrAmountMismatch
	}

	method := params.PaymentMethod
	if method == "" {
		method = params.CurrencyLabel
	}
	if err := s.applyPaid(ctx, invoice, params.InvID, method); err != nil {
		return "", err
	}

	return fmt.Sprintf("OK%d", invID), nil
}

func (s *PaymentService) HandleTokenNotification(ctx context.Context, token string) (*TokenOutcome, error) {

	payload, err := robokassa.VerifyToken(token, s.cfg.TokenSecret)
	if err != nil {
		return nil, utils.ErrInvalidToken
	}

	if payload.State != robokassa.StateSuccess {
		// Acknowledged as received so the gateway stops retrying; the
		// invoice stays untouched.
		return &TokenOutcome{PaymentFailed: true, InvID: payload.InvID}, nil
	}

	invoice, err := s.invoiceRepo.GetByInvID(ctx, payload.InvID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if invoice == nil {
		return nil, utils.ErrInvoiceNotFound
	}

	if err := s.applyPaid(ctx, invoice, payload.OpKey, payload.PaymentMethod); err != nil {
		return nil, err
	}

	return &TokenOutcome{InvID: payload.InvID}, nil
}

// resolveInvoice correlates a notification with an invoice by the
// gateway id first, falling back to the internal id carried in the
// passthrough param (covers deliveries racing the AssignInvID write).
func (s *PaymentService) resolveInvoice(ctx context.Context, invID int64, shpInvoice string) (*db_models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByInvID(ctx, invID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if invoice != nil {
		return invoice, nil
	}

	if shpInvoice == "" {
		return nil, nil
	}
	internalID, err := uuid.Parse(shpInvoice)
	if err != nil {
		return nil, nil
	}
	invoice, err = s.invoiceRepo.GetByID(ctx, internalID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return invoice, nil
}

// applyPaid performs the pending->paid edge idempotently. Only the
// delivery that wins the conditional update dispatches side effects;
// replays and racing channels are acknowledged without firing anything
// twice.
func (s *PaymentService) applyPaid(ctx context.Context, invoice *db_models.Invoice, paymentID, paymentMethod string) error {

	if invoice.Status == db_models.InvoiceStatusPaid {
		// Replay of an already-paid notification: re-confirm success.
		return nil
	}

	won, err := s.invoiceRepo.MarkPaid(ctx, invoice.ID, paymentID, paymentMethod, utils.NowUnixSeconds())
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !won {
		// The other channel (or a concurrent retry) got there first.
		s.logger.Info("paid transition already applied",
			zap.String("invoice_id", invoice.ID.String()))
		return nil
	}

	s.logger.Info("invoice paid",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("payment_method", paymentMethod))

	s.dispatcher.DispatchReceipt(invoice.ID)
	s.dispatcher.DispatchPaidEvent(invoice.ID, invoice.AccountID)
	return nil
}

func (s *PaymentService) SuccessReturnURL(params robokassa.ResultParams) (string, error) {

	if !robokassa.VerifyResult(params, s.cfg.Password1) {
		return "", utils.ErrInvalidSignature
	}

	q := url.Values{}
	q.Set("amount", params.OutSum)
	q.Set("InvId", params.InvID)
	return s.cfg.SuccessPageURL + "?" + q.Encode(), nil
}

func (s *PaymentService) FailReturnURL(params robokassa.ResultParams) string {
	q := url.Values{}
	q.Set("amount", params.OutSum)
	q.Set("InvId", params.InvID)
	return s.cfg.FailPageURL + "?" + q.Encode()
}
