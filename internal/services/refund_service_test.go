package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/models/request_models"
	"github.com/AlexeiFed/waxhands-sub002/pkg/robokassa"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

type refundFixture struct {
	invoiceRepo  *mockInvoiceRepo
	workshopRepo *mockWorkshopRepo
	refundRepo   *mockRefundRequestRepo
	gateway      *mockGateway
	opKeys       *fakeOpKeys
	service      RefundServiceInterface
}

func newRefundFixture() *refundFixture {
	f := &refundFixture{
		invoiceRepo:  new(mockInvoiceRepo),
		workshopRepo: new(mockWorkshopRepo),
		refundRepo:   new(mockRefundRequestRepo),
		gateway:      new(mockGateway),
		opKeys:       newFakeOpKeys(),
	}
	f.service = NewRefundService(f.invoiceRepo, f.workshopRepo, f.refundRepo, f.gateway, f.opKeys, zap.NewNop())
	return f
}

// paidInvoice is paid through the token channel: PaymentID holds the
// gateway operation key.
func paidInvoice(caller utils.CallerContext, invID int64) *db_models.Invoice {
	inv := pendingInvoice(invID)
	inv.AccountID = caller.AccountID
	inv.Status = db_models.InvoiceStatusPaid
	inv.PaymentID = "op-key-1"
	return inv
}

func workshopStartingIn(d time.Duration) *db_models.Workshop {
	w := &db_models.Workshop{StartsAt: time.Now().Add(d).Unix()}
	w.ID = uuid.New()
	return w
}

func TestRequestRefund(t *testing.T) {
	ctx := context.Background()
	caller := utils.CallerContext{AccountID: uuid.New(), Role: utils.RoleParent}

	t.Run("full refund submitted and claim recorded", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)
		f.workshopRepo.On("GetByID", ctx, invoice.WorkshopID).Return(workshopStartingIn(10*time.Hour), nil)
		f.invoiceRepo.On("BeginRefund", ctx, invoice.ID).Return(true, nil)
		f.gateway.On("SubmitRefund", ctx, robokassa.RefundSubmission{
			OpKey:    "op-key-1",
			SumMinor: invoice.AmountMinor,
		}).Return(&robokassa.RefundResult{RequestID: "rq-1"}, nil)
		f.invoiceRepo.On("SetRefundRequestID", ctx, invoice.ID, "rq-1").Return(nil)
		f.refundRepo.On("Create", ctx, mock.Anything).Return(nil)

		resp, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{InvoiceID: invoice.ID})
		require.NoError(t, err)
		assert.Equal(t, string(db_models.RefundStatusPending), resp.RefundStatus)
		assert.Equal(t, invoice.AmountMinor, resp.SumMinor)
		assert.Equal(t, "rq-1", resp.GatewayRequestID)
		f.invoiceRepo.AssertExpectations(t)
		f.gateway.AssertExpectations(t)
	})

	t.Run("window closed inside three hours of start", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)
		f.workshopRepo.On("GetByID", ctx, invoice.WorkshopID).Return(workshopStartingIn(2*time.Hour+59*time.Minute), nil)

		_, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{InvoiceID: invoice.ID})
		assert.ErrorIs(t, err, utils.ErrRefundWindowClosed)
		f.gateway.AssertNotCalled(t, "SubmitRefund", mock.Anything, mock.Anything)
	})

	t.Run("unpaid invoice rejected before the window check", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)
		invoice.Status = db_models.InvoiceStatusPending

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)

		_, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{InvoiceID: invoice.ID})
		assert.ErrorIs(t, err, utils.ErrInvoiceNotPaid)
		f.workshopRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("refund already in flight rejected", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)
		invoice.RefundStatus = db_models.RefundStatusPending

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)
		f.workshopRepo.On("GetByID", ctx, invoice.WorkshopID).Return(workshopStartingIn(10*time.Hour), nil)

		_, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{InvoiceID: invoice.ID})
		assert.ErrorIs(t, err, utils.ErrRefundAlreadyRequested)
	})

	t.Run("concurrent duplicate loses the claim", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)
		f.workshopRepo.On("GetByID", ctx, invoice.WorkshopID).Return(workshopStartingIn(10*time.Hour), nil)
		f.invoiceRepo.On("BeginRefund", ctx, invoice.ID).Return(false, nil)

		_, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{InvoiceID: invoice.ID})
		assert.ErrorIs(t, err, utils.ErrRefundAlreadyRequested)
		f.gateway.AssertNotCalled(t, "SubmitRefund", mock.Anything, mock.Anything)
	})

	t.Run("gateway rejection resets the claim and surfaces the message", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)
		f.workshopRepo.On("GetByID", ctx, invoice.WorkshopID).Return(workshopStartingIn(10*time.Hour), nil)
		f.invoiceRepo.On("BeginRefund", ctx, invoice.ID).Return(true, nil)
		f.gateway.On("SubmitRefund", ctx, mock.Anything).Return(nil, &robokassa.APIError{Message: "Operation already refunded"})
		f.invoiceRepo.On("ResetRefund", ctx, invoice.ID).Return(true, nil)

		_, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{InvoiceID: invoice.ID})
		require.Error(t, err)

		var gwErr *utils.GatewayError
		require.True(t, errors.As(err, &gwErr))
		assert.Equal(t, "Operation already refunded", gwErr.Message)
		f.invoiceRepo.AssertCalled(t, "ResetRefund", ctx, invoice.ID)
		f.refundRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("partial sum validated against the invoice amount", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)
		f.workshopRepo.On("GetByID", ctx, invoice.WorkshopID).Return(workshopStartingIn(10*time.Hour), nil)

		tooMuch := invoice.AmountMinor + 1
		_, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{
			InvoiceID: invoice.ID,
			SumMinor:  &tooMuch,
		})
		assert.ErrorIs(t, err, utils.ErrInvalidRefundSum)

		var zero int64
		_, err = f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{
			InvoiceID: invoice.ID,
			SumMinor:  &zero,
		})
		assert.ErrorIs(t, err, utils.ErrInvalidRefundSum)
	})

	t.Run("partial sum passed through to the gateway", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)
		f.workshopRepo.On("GetByID", ctx, invoice.WorkshopID).Return(workshopStartingIn(10*time.Hour), nil)
		f.invoiceRepo.On("BeginRefund", ctx, invoice.ID).Return(true, nil)
		f.gateway.On("SubmitRefund", ctx, robokassa.RefundSubmission{
			OpKey:    "op-key-1",
			SumMinor: 50000,
		}).Return(&robokassa.RefundResult{RequestID: "rq-2"}, nil)
		f.invoiceRepo.On("SetRefundRequestID", ctx, invoice.ID, "rq-2").Return(nil)
		f.refundRepo.On("Create", ctx, mock.Anything).Return(nil)

		partial := int64(50000)
		resp, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{
			InvoiceID: invoice.ID,
			SumMinor:  &partial,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(50000), resp.SumMinor)
	})

	t.Run("full cancellation reserved for admins", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)

		_, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{
			InvoiceID:  invoice.ID,
			FullCancel: true,
		})
		assert.ErrorIs(t, err, utils.ErrAccessDenied)
	})

	t.Run("foreign invoice denied", func(t *testing.T) {
		f := newRefundFixture()
		other := utils.CallerContext{AccountID: uuid.New(), Role: utils.RoleParent}
		invoice := paidInvoice(other, 100)

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)

		_, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{InvoiceID: invoice.ID})
		assert.ErrorIs(t, err, utils.ErrAccessDenied)
	})

	t.Run("operation key fetched and cached when not recorded", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)
		// Classic channel payment: PaymentID echoes the gateway invoice
		// id instead of an operation key.
		invoice.PaymentID = "100"

		f.invoiceRepo.On("GetByID", ctx, invoice.ID).Return(invoice, nil)
		f.workshopRepo.On("GetByID", ctx, invoice.WorkshopID).Return(workshopStartingIn(10*time.Hour), nil)
		f.gateway.On("QueryOperationState", ctx, int64(100)).Return(&robokassa.OperationState{
			StateCode: robokassa.StateCompleted,
			OpKey:     "op-from-query",
		}, nil).Once()
		f.invoiceRepo.On("BeginRefund", ctx, invoice.ID).Return(true, nil)
		f.gateway.On("SubmitRefund", ctx, mock.MatchedBy(func(sub robokassa.RefundSubmission) bool {
			return sub.OpKey == "op-from-query"
		})).Return(&robokassa.RefundResult{RequestID: "rq-3"}, nil)
		f.invoiceRepo.On("SetRefundRequestID", ctx, invoice.ID, "rq-3").Return(nil)
		f.refundRepo.On("Create", ctx, mock.Anything).Return(nil)

		_, err := f.service.RequestRefund(ctx, caller, request_models.CreateRefundRequest{InvoiceID: invoice.ID})
		require.NoError(t, err)
		assert.Equal(t, "op-from-query", f.opKeys.Get(100))
	})
}

func TestPollPending(t *testing.T) {
	ctx := context.Background()
	caller := utils.CallerContext{AccountID: uuid.New(), Role: utils.RoleParent}

	t.Run("completed refund cancels the invoice", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)
		invoice.RefundStatus = db_models.RefundStatusPending
		invoice.RefundRequestID = "rq-1"

		record := &db_models.RefundRequest{InvoiceID: invoice.ID}
		record.ID = uuid.New()

		f.invoiceRepo.On("ListRefundPending", ctx).Return([]db_models.Invoice{*invoice}, nil)
		f.gateway.On("QueryRefundState", ctx, "rq-1").Return(&robokassa.RefundState{Status: robokassa.RefundStateCompleted}, nil)
		f.invoiceRepo.On("CompleteRefund", ctx, invoice.ID).Return(true, nil)
		f.refundRepo.On("GetLatestByInvoice", ctx, invoice.ID).Return(record, nil)
		f.refundRepo.On("SetOutcome", ctx, record.ID, db_models.RefundRequestCompleted, "").Return(nil)

		f.service.PollPending(ctx)
		f.invoiceRepo.AssertExpectations(t)
		f.refundRepo.AssertExpectations(t)
	})

	t.Run("failed refund keeps the invoice paid", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)
		invoice.RefundStatus = db_models.RefundStatusPending
		invoice.RefundRequestID = "rq-2"

		record := &db_models.RefundRequest{InvoiceID: invoice.ID}
		record.ID = uuid.New()

		f.invoiceRepo.On("ListRefundPending", ctx).Return([]db_models.Invoice{*invoice}, nil)
		f.gateway.On("QueryRefundState", ctx, "rq-2").Return(&robokassa.RefundState{
			Status:       robokassa.RefundStateFailed,
			ErrorMessage: "Insufficient merchant balance",
		}, nil)
		f.invoiceRepo.On("FailRefund", ctx, invoice.ID).Return(true, nil)
		f.refundRepo.On("GetLatestByInvoice", ctx, invoice.ID).Return(record, nil)
		f.refundRepo.On("SetOutcome", ctx, record.ID, db_models.RefundRequestFailed, "Insufficient merchant balance").Return(nil)

		f.service.PollPending(ctx)
		f.invoiceRepo.AssertNotCalled(t, "CompleteRefund", mock.Anything, mock.Anything)
		f.refundRepo.AssertExpectations(t)
	})

	t.Run("processing refund left untouched", func(t *testing.T) {
		f := newRefundFixture()
		invoice := paidInvoice(caller, 100)
		invoice.RefundStatus = db_models.RefundStatusPending
		invoice.RefundRequestID = "rq-3"

		f.invoiceRepo.On("ListRefundPending", ctx).Return([]db_models.Invoice{*invoice}, nil)
		f.gateway.On("QueryRefundState", ctx, "rq-3").Return(&robokassa.RefundState{Status: robokassa.RefundStateProcessing}, nil)

		f.service.PollPending(ctx)
		f.invoiceRepo.AssertNotCalled(t, "CompleteRefund", mock.Anything, mock.Anything)
		f.invoiceRepo.AssertNotCalled(t, "FailRefund", mock.Anything, mock.Anything)
	})
}

func TestEligibility(t *testing.T) {
	ctx := context.Background()

	f := newRefundFixture()
	workshop := workshopStartingIn(10 * time.Hour)
	f.workshopRepo.On("GetByID", ctx, workshop.ID).Return(workshop, nil)

	resp, err := f.service.Eligibility(ctx, workshop.ID)
	require.NoError(t, err)
	assert.True(t, resp.Allowed)
	assert.InDelta(t, 7.0, resp.HoursRemaining, 0.11)

	closed := newRefundFixture()
	soon := workshopStartingIn(time.Hour)
	closed.workshopRepo.On("GetByID", ctx, soon.ID).Return(soon, nil)

	resp, err = closed.service.Eligibility(ctx, soon.ID)
	require.NoError(t, err)
	assert.False(t, resp.Allowed)
	assert.Equal(t, 0.0, resp.HoursRemaining)
}
