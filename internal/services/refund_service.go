package services

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/models/request_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/models/response_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	mem "github.com/AlexeiFed/waxhands-sub002/pkg/memcache"
	"github.com/AlexeiFed/waxhands-sub002/pkg/robokassa"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

const opKeyTTL = 15 * time.Minute

type RefundServiceInterface interface {
	// RequestRefund submits a refund to the gateway after the ordered
	// precondition chain passes: ownership, invoice paid, refund window
	// open, no refund already in flight.
	RequestRefund(ctx context.Context, caller utils.CallerContext, request request_models.CreateRefundRequest) (*response_models.RefundStateResponse, error)

	Eligibility(ctx context.Context, workshopID uuid.UUID) (*response_models.EligibilityResponse, error)
	GetRefundState(ctx context.Context, caller utils.CallerContext, invoiceID uuid.UUID) (*response_models.RefundStateResponse, error)

	// PollPending asks the gateway for the outcome of every in-flight
	// refund; completion cancels the invoice, failure keeps it paid.
	PollPending(ctx context.Context)
}

type RefundService struct {
	invoiceRepo  repositories.IInvoiceRepository
	workshopRepo repositories.IWorkshopRepository
	refundRepo   repositories.IRefundRequestRepository
	gateway      Gateway
	opKeys       mem.OpKeyStore
	logger       *zap.Logger
	now          func() time.Time
}

func NewRefundService(
	invoiceRepo repositories.IInvoiceRepository,
	workshopRepo repositories.IWorkshopRepository,
	refundRepo repositories.IRefundRequestRepository,
	gateway Gateway,
	opKeys mem.OpKeyStore,
	logger *zap.Logger,
) RefundServiceInterface {
	return &RefundService{
		invoiceRepo:  invoiceRepo,
		workshopRepo: workshopRepo,
		refundRepo:   refundRepo,
		gateway:      gateway,
		opKeys:       opKeys,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *RefundService) RequestRefund(ctx context.Context, caller utils.CallerContext, request request_models.CreateRefundRequest) (*response_models.RefundStateResponse, error) {

	invoice, err := s.invoiceRepo.GetByID(ctx, request.InvoiceID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if invoice == nil {
		return nil, utils.ErrInvoiceNotFound
	}

	if !caller.Owns(invoice.AccountID) {
		return nil, utils.ErrAccessDenied
	}
	if request.FullCancel && !caller.IsAdmin() {
		return nil, utils.ErrAccessDenied
	}

	if invoice.Status != db_models.InvoiceStatusPaid {
		return nil, utils.ErrInvoiceNotPaid
	}

	workshop, err := s.workshopRepo.GetByID(ctx, invoice.WorkshopID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if workshop == nil {
		return nil, utils.ErrWorkshopNotFound
	}
	if !RefundAllowed(s.now(), time.Unix(workshop.StartsAt, 0)) {
		return nil, utils.ErrRefundWindowClosed
	}

	if invoice.RefundStatus != db_models.RefundStatusNone {
		return nil, utils.ErrRefundAlreadyRequested
	}

	opKey, err := s.resolveOpKey(ctx, invoice)
	if err != nil {
		return nil, err
	}

	sumMinor := invoice.AmountMinor
	if request.SumMinor != nil {
		if *request.SumMinor <= 0 || *request.SumMinor > invoice.AmountMinor {
			return nil, utils.ErrInvalidRefundSum
		}
		sumMinor = *request.SumMinor
	}

	// Claim the none->pending edge before touching the gateway so a
	// concurrent duplicate observes refund_status != none and stops.
	won, err := s.invoiceRepo.BeginRefund(ctx, invoice.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if !won {
		return nil, utils.ErrRefundAlreadyRequested
	}

	submission := robokassa.RefundSubmission{
		OpKey:    opKey,
		SumMinor: sumMinor,
	}
	if request.FullCancel {
		submission.Items = refundItems(invoice.Participants)
	}

	result, err := s.gateway.SubmitRefund(ctx, submission)
	if err != nil {
		// Leave the invoice exactly as before the attempt.
		if _, resetErr := s.invoiceRepo.ResetRefund(ctx, invoice.ID); resetErr != nil {
			s.logger.Error("refund claim reset failed",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(resetErr))
		}
		return nil, gatewayError(err)
	}

	if err := s.invoiceRepo.SetRefundRequestID(ctx, invoice.ID, result.RequestID); err != nil {
		s.logger.Error("storing refund request id failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err))
	}

	record := &db_models.RefundRequest{
		InvoiceID:        invoice.ID,
		OpKey:            opKey,
		SumMinor:         sumMinor,
		GatewayRequestID: result.RequestID,
		Status:           db_models.RefundRequestSubmitted,
	}
	if err := s.refundRepo.Create(ctx, record); err != nil {
		s.logger.Error("refund request record failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("refund submitted",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("gateway_request_id", result.RequestID),
		zap.Int64("sum_minor", sumMinor))

	return &response_models.RefundStateResponse{
		InvoiceID:        invoice.ID,
		RefundStatus:     string(db_models.RefundStatusPending),
		SumMinor:         sumMinor,
		GatewayRequestID: result.RequestID,
	}, nil
}

// resolveOpKey finds the gateway operation key for a paid invoice: the
// one recorded by the token channel, the cached one, or a fresh
// operation-state query.
func (s *RefundService) resolveOpKey(ctx context.Context, invoice *db_models.Invoice) (string, error) {
	if invoice.InvID == nil {
		return "", utils.ErrInvoiceNotPaid
	}
	invID := *invoice.InvID

	// The token channel stores the operation key as the payment id; the
	// classic channel stores the gateway invoice id echo.
	if invoice.PaymentID != "" && invoice.PaymentID != strconv.FormatInt(invID, 10) {
		return invoice.PaymentID, nil
	}

	if cached := s.opKeys.Get(invID); cached != "" {
		return cached, nil
	}

	state, err := s.gateway.QueryOperationState(ctx, invID)
	if err != nil {
		return "", gatewayError(err)
	}
	if state.OpKey == "" {
		return "", utils.NewGatewayError("operation key not available for invoice")
	}

	s.opKeys.Set(invID, state.OpKey, opKeyTTL)
	return state.OpKey, nil
}

func (s *RefundService) Eligibility(ctx context.Context, workshopID uuid.UUID) (*response_models.EligibilityResponse, error) {

	workshop, err := s.workshopRepo.GetByID(ctx, workshopID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if workshop == nil {
		return nil, utils.ErrWorkshopNotFound
	}

	report := RefundEligibility(s.now(), time.Unix(workshop.StartsAt, 0))
	return &response_models.EligibilityResponse{
		Allowed:        report.Allowed,
		HoursRemaining: report.HoursRemaining,
	}, nil
}

func (s *RefundService) GetRefundState(ctx context.Context, caller utils.CallerContext, invoiceID uuid.UUID) (*response_models.RefundStateResponse, error) {

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

	resp := &response_models.RefundStateResponse{
		InvoiceID:        invoice.ID,
		RefundStatus:     string(invoice.RefundStatus),
		GatewayRequestID: invoice.RefundRequestID,
	}

	record, err := s.refundRepo.GetLatestByInvoice(ctx, invoiceID)
	if err == nil && record != nil {
		resp.SumMinor = record.SumMinor
		resp.ErrorMessage = record.ErrorMessage
	}

	return resp, nil
}

func (s *RefundService) PollPending(ctx context.Context) {

	invoices, err := s.invoiceRepo.ListRefundPending(ctx)
	if err != nil {
		s.logger.Error("refund poll: listing pending refunds failed", zap.Error(err))
		return
	}

	for i := range invoices {
		invoice := &invoices[i]
		if invoice.RefundRequestID == "" {
			continue
		}

		state, err := s.gateway.QueryRefundState(ctx, invoice.RefundRequestID)
		if err != nil {
			s.logger.Warn("refund poll: gateway query failed",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err))
			continue
		}

		switch state.Status {
		case robokassa.RefundStateCompleted:
			if _, err := s.invoiceRepo.CompleteRefund(ctx, invoice.ID); err != nil {
				s.logger.Error("refund poll: completing refund failed",
					zap.String("invoice_id", invoice.ID.String()),
					zap.Error(err))
				continue
			}
			s.setLatestOutcome(ctx, invoice.ID, db_models.RefundRequestCompleted, "")
			s.logger.Info("refund completed, invoice cancelled",
				zap.String("invoice_id", invoice.ID.String()))

		case robokassa.RefundStateFailed:
			if _, err := s.invoiceRepo.FailRefund(ctx, invoice.ID); err != nil {
				s.logger.Error("refund poll: marking refund failed errored",
					zap.String("invoice_id", invoice.ID.String()),
					zap.Error(err))
				continue
			}
			s.setLatestOutcome(ctx, invoice.ID, db_models.RefundRequestFailed, state.ErrorMessage)
			s.logger.Warn("refund failed at gateway",
				zap.String("invoice_id", invoice.ID.String()),
				zap.String("reason", state.ErrorMessage))
		}
	}
}

func (s *RefundService) setLatestOutcome(ctx context.Context, invoiceID uuid.UUID, status db_models.RefundRequestStatus, message string) {
	record, err := s.refundRepo.GetLatestByInvoice(ctx, invoiceID)
	if err != nil || record == nil {
		return
	}
	if err := s.refundRepo.SetOutcome(ctx, record.ID, status, message); err != nil {
		s.logger.Error("refund outcome record failed",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
	}
}

func refundItems(participants []db_models.Participant) []robokassa.RefundItem {
	var items []robokassa.RefundItem
	for i := range participants {
		for _, li := range participants[i].StyleItems() {
			items = append(items, robokassa.RefundItem{
				Name:     li.Name,
				Quantity: li.Quantity,
				Sum:      robokassa.FormatOutSum(li.UnitPriceMinor * int64(li.Quantity)),
			})
		}
		for _, li := range participants[i].OptionItems() {
			items = append(items, robokassa.RefundItem{
				Name:     li.Name,
				Quantity: li.Quantity,
				Sum:      robokassa.FormatOutSum(li.UnitPriceMinor * int64(li.Quantity)),
			})
		}
	}
	return items
}

// gatewayError surfaces the gateway's own message where it reported
// one, and a generic transport description otherwise.
func gatewayError(err error) error {
	if apiErr, ok := err.(*robokassa.APIError); ok {
		return utils.NewGatewayError(apiErr.Message)
	}
	return utils.NewGatewayError(err.Error())
}
