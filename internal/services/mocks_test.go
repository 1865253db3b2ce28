package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
	"github.com/AlexeiFed/waxhands-sub002/pkg/robokassa"
)

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*db_models.Invoice)
	return inv, args.Error(1)
}

func (m *mockInvoiceRepo) GetByInvID(ctx context.Context, invID int64) (*db_models.Invoice, error) {
	args := m.Called(ctx, invID)
	inv, _ := args.Get(0).(*db_models.Invoice)
	return inv, args.Error(1)
}

func (m *mockInvoiceRepo) AssignInvID(ctx context.Context, id uuid.UUID, invID int64) (bool, error) {
	args := m.Called(ctx, id, invID)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentID, paymentMethod string, paidAt int64) (bool, error) {
	args := m.Called(ctx, id, paymentID, paymentMethod, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) BeginRefund(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) SetRefundRequestID(ctx context.Context, id uuid.UUID, requestID string) error {
	args := m.Called(ctx, id, requestID)
	return args.Error(0)
}

func (m *mockInvoiceRepo) ResetRefund(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) CompleteRefund(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) FailRefund(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) ListRefundPending(ctx context.Context) ([]db_models.Invoice, error) {
	args := m.Called(ctx)
	invs, _ := args.Get(0).([]db_models.Invoice)
	return invs, args.Error(1)
}

type mockWorkshopRepo struct {
	mock.Mock
}

func (m *mockWorkshopRepo) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Workshop, error) {
	args := m.Called(ctx, id)
	w, _ := args.Get(0).(*db_models.Workshop)
	return w, args.Error(1)
}

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) GetStyles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Style, error) {
	args := m.Called(ctx, ids)
	styles, _ := args.Get(0).(map[uuid.UUID]db_models.Style)
	return styles, args.Error(1)
}

func (m *mockCatalogRepo) GetOptions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Option, error) {
	args := m.Called(ctx, ids)
	options, _ := args.Get(0).(map[uuid.UUID]db_models.Option)
	return options, args.Error(1)
}

func (m *mockCatalogRepo) GetChildren(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]db_models.Child, error) {
	args := m.Called(ctx, ids)
	children, _ := args.Get(0).(map[uuid.UUID]db_models.Child)
	return children, args.Error(1)
}

type mockParticipantRepo struct {
	mock.Mock
}

func (m *mockParticipantRepo) RegisteredChildIDs(ctx context.Context, workshopID uuid.UUID, childIDs []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, workshopID, childIDs)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *mockParticipantRepo) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]db_models.Participant, error) {
	args := m.Called(ctx, invoiceID)
	participants, _ := args.Get(0).([]db_models.Participant)
	return participants, args.Error(1)
}

type mockRegistrationRepo struct {
	mock.Mock
}

func (m *mockRegistrationRepo) CreateGroup(ctx context.Context, invoice *db_models.Invoice, participants []db_models.Participant) error {
	args := m.Called(ctx, invoice, participants)
	return args.Error(0)
}

type mockRefundRequestRepo struct {
	mock.Mock
}

func (m *mockRefundRequestRepo) Create(ctx context.Context, request *db_models.RefundRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *mockRefundRequestRepo) GetLatestByInvoice(ctx context.Context, invoiceID uuid.UUID) (*db_models.RefundRequest, error) {
	args := m.Called(ctx, invoiceID)
	record, _ := args.Get(0).(*db_models.RefundRequest)
	return record, args.Error(1)
}

func (m *mockRefundRequestRepo) SetOutcome(ctx context.Context, id uuid.UUID, status db_models.RefundRequestStatus, errorMessage string) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) PaymentURL(invID int64, amountMinor int64, description string, shp map[string]string) string {
	args := m.Called(invID, amountMinor, description, shp)
	return args.String(0)
}

func (m *mockGateway) QueryOperationState(ctx context.Context, invID int64) (*robokassa.OperationState, error) {
	args := m.Called(ctx, invID)
	state, _ := args.Get(0).(*robokassa.OperationState)
	return state, args.Error(1)
}

func (m *mockGateway) SubmitRefund(ctx context.Context, sub robokassa.RefundSubmission) (*robokassa.RefundResult, error) {
	args := m.Called(ctx, sub)
	result, _ := args.Get(0).(*robokassa.RefundResult)
	return result, args.Error(1)
}

func (m *mockGateway) QueryRefundState(ctx context.Context, requestID string) (*robokassa.RefundState, error) {
	args := m.Called(ctx, requestID)
	state, _ := args.Get(0).(*robokassa.RefundState)
	return state, args.Error(1)
}

func (m *mockGateway) AttachReceipt(ctx context.Context, receipt robokassa.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) DispatchReceipt(invoiceID uuid.UUID) {
	m.Called(invoiceID)
}

func (m *mockDispatcher) DispatchPaidEvent(invoiceID, accountID uuid.UUID) {
	m.Called(invoiceID, accountID)
}

// fakeOpKeys is a plain map double for the operation key cache.
type fakeOpKeys struct {
	data map[int64]string
}

func newFakeOpKeys() *fakeOpKeys {
	return &fakeOpKeys{data: make(map[int64]string)}
}

func (f *fakeOpKeys) Set(invID int64, opKey string, _ time.Duration) { f.data[invID] = opKey }
func (f *fakeOpKeys) Get(invID int64) string                        { return f.data[invID] }
