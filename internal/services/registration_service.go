package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/models/request_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/models/response_models"
	"github.com/AlexeiFed/waxhands-sub002/internal/repositories"
	"github.com/AlexeiFed/waxhands-sub002/pkg/utils"
)

type RegistrationServiceInterface interface {
	// GroupRegister books every child in the request into the workshop
	// and creates exactly one pending invoice for the whole group, or
	// nothing at all.
	GroupRegister(ctx context.Context, caller utils.CallerContext, request request_models.GroupRegistrationRequest) (*response_models.InvoiceResponse, error)
	GetInvoice(ctx context.Context, caller utils.CallerContext, invoiceID uuid.UUID) (*response_models.InvoiceResponse, error)
}

type RegistrationService struct {
	registrationRepo repositories.IRegistrationRepository
	participantRepo  repositories.IParticipantRepository
	invoiceRepo      repositories.IInvoiceRepository
	workshopRepo     repositories.IWorkshopRepository
	catalogRepo      repositories.ICatalogRepository
	logger           *zap.Logger
}

func NewRegistrationService(
	registrationRepo repositories.IRegistrationRepository,
	participantRepo repositories.IParticipantRepository,
	invoiceRepo repositories.IInvoiceRepository,
	workshopRepo repositories.IWorkshopRepository,
	catalogRepo repositories.ICatalogRepository,
	logger *zap.Logger,
) RegistrationServiceInterface {
	return &RegistrationService{
		registrationRepo: registrationRepo,
		participantRepo:  participantRepo,
		invoiceRepo:      invoiceRepo,
		workshopRepo:     workshopRepo,
		catalogRepo:      catalogRepo,
		logger:           logger,
	}
}

func (s *RegistrationService) GroupRegister(ctx context.Context, caller utils.CallerContext, request request_models.GroupRegistrationRequest) (*response_models.InvoiceResponse, error) {

	if len(request.Children) == 0 {
		return nil, utils.ErrEmptySelection
	}

	workshop, err := s.workshopRepo.GetByID(ctx, request.WorkshopID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if workshop == nil {
		return nil, utils.ErrWorkshopNotFound
	}

	childIDs := make([]uuid.UUID, 0, len(request.Children))
	for _, child := range request.Children {
		childIDs = append(childIDs, child.ChildID)
	}

	children, err := s.catalogRepo.GetChildren(ctx, childIDs)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	for _, id := range childIDs {
		child, ok := children[id]
		if !ok {
			return nil, utils.ErrChildNotFound
		}
		if !caller.Owns(child.AccountID) {
			return nil, utils.ErrAccessDenied
		}
	}

	// Advisory pre-check for a readable error; the composite unique
	// index inside the transaction closes the race.
	registered, err := s.participantRepo.RegisteredChildIDs(ctx, request.WorkshopID, childIDs)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if len(registered) > 0 {
		return nil, utils.ErrDuplicateRegistration
	}

	participants, totalMinor, err := s.buildParticipants(ctx, request, children)
	if err != nil {
		return nil, err
	}

	invoice := &db_models.Invoice{
		AccountID:    caller.AccountID,
		WorkshopID:   request.WorkshopID,
		AmountMinor:  totalMinor,
		Status:       db_models.InvoiceStatusPending,
		RefundStatus: db_models.RefundStatusNone,
		Notes:        request.Notes,
	}
	if caller.IsAdmin() && len(participants) > 0 {
		// Admin books on behalf of the children's parent.
		invoice.AccountID = children[participants[0].ChildID].AccountID
	}

	if err := s.registrationRepo.CreateGroup(ctx, invoice, participants); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrDuplicateRegistration
		}
		s.logger.Error("group registration failed",
			zap.String("workshop_id", request.WorkshopID.String()),
			zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	invoice.Participants = participants
	resp := response_models.ToInvoiceResponse(invoice)
	return &resp, nil
}

// buildParticipants resolves catalog prices and computes each child's
// total: sum(style price x qty) + sum(option price x qty). Prices are
// frozen into the line items at this point.
func (s *RegistrationService) buildParticipants(ctx context.Context, request request_models.GroupRegistrationRequest, children map[uuid.UUID]db_models.Child) ([]db_models.Participant, int64, error) {

	styleIDs, optionIDs := collectItemIDs(request.Children)

	styles, err := s.catalogRepo.GetStyles(ctx, styleIDs)
	if err != nil {
		return nil, 0, utils.ErrDatabaseError
	}
	options, err := s.catalogRepo.GetOptions(ctx, optionIDs)
	if err != nil {
		return nil, 0, utils.ErrDatabaseError
	}

	participants := make([]db_models.Participant, 0, len(request.Children))
	var totalMinor int64

	for _, reg := range request.Children {
		if len(reg.Styles) == 0 {
			return nil, 0, utils.ErrEmptySelection
		}

		var childTotal int64
		styleItems := make([]db_models.LineItem, 0, len(reg.Styles))
		for _, sel := range reg.Styles {
			style, ok := styles[sel.ID]
			if !ok {
				return nil, 0, utils.ErrEmptySelection
			}
			styleItems = append(styleItems, db_models.LineItem{
				ItemID:         style.ID,
				Name:           style.Name,
				UnitPriceMinor: style.PriceMinor,
				Quantity:       sel.Quantity,
			})
			childTotal += style.PriceMinor * int64(sel.Quantity)
		}

		optionItems := make([]db_models.LineItem, 0, len(reg.Options))
		for _, sel := range reg.Options {
			option, ok := options[sel.ID]
			if !ok {
				return nil, 0, utils.ErrEmptySelection
			}
			optionItems = append(optionItems, db_models.LineItem{
				ItemID:         option.ID,
				Name:           option.Name,
				UnitPriceMinor: option.PriceMinor,
				Quantity:       sel.Quantity,
			})
			childTotal += option.PriceMinor * int64(sel.Quantity)
		}

		participants = append(participants, db_models.Participant{
			ChildID:    reg.ChildID,
			WorkshopID: request.WorkshopID,
			ChildName:  children[reg.ChildID].Name,
			Styles:     db_models.MarshalLineItems(styleItems),
			Options:    db_models.MarshalLineItems(optionItems),
			TotalMinor: childTotal,
			Notes:      reg.Notes,
		})
		totalMinor += childTotal
	}

	return participants, totalMinor, nil
}

func collectItemIDs(children []request_models.ChildRegistration) (styleIDs, optionIDs []uuid.UUID) {
	seenStyles := make(map[uuid.UUID]bool)
	seenOptions := make(map[uuid.UUID]bool)
	for _, child := range children {
		for _, sel := range child.Styles {
			if !seenStyles[sel.ID] {
				seenStyles[sel.ID] = true
				styleIDs = append(styleIDs, sel.ID)
			}
		}
		for _, sel := range child.Options {
			if !seenOptions[sel.ID] {
				seenOptions[sel.ID] = true
				optionIDs = append(optionIDs, sel.ID)
			}
		}
	}
	return styleIDs, optionIDs
}

func (s *RegistrationService) GetInvoice(ctx context.Context, caller utils.CallerContext, invoiceID uuid.UUID) (*response_models.InvoiceResponse, error) {

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

	resp := response_models.ToInvoiceResponse(invoice)
	return &resp, nil
}
