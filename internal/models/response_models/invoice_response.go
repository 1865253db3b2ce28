package response_models

import (
	"github.com/google/uuid"

	"github.com/AlexeiFed/waxhands-sub002/internal/models/db_models"
)

type ParticipantResponse struct {
	ID         uuid.UUID            `json:"id"`
	ChildID    uuid.UUID            `json:"child_id"`
	ChildName  string               `json:"child_name"`
	Styles     []db_models.LineItem `json:"styles"`
	Options    []db_models.LineItem `json:"options"`
	TotalMinor int64                `json:"total_minor"`
	Paid       bool                 `json:"paid"`
	Notes      string               `json:"notes,omitempty"`
}

type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	WorkshopID    uuid.UUID             `json:"workshop_id"`
	AmountMinor   int64                 `json:"amount_minor"`
	Currency      string                `json:"currency"`
	Status        string                `json:"status"`
	RefundStatus  string                `json:"refund_status"`
	InvID         *int64                `json:"inv_id,omitempty"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	PaidAt        *int64                `json:"paid_at,omitempty"`
	Participants  []ParticipantResponse `json:"participants,omitempty"`
}

func ToInvoiceResponse(inv *db_models.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		WorkshopID:    inv.WorkshopID,
		AmountMinor:   inv.AmountMinor,
		Currency:      inv.Currency,
		Status:        string(inv.Status),
		RefundStatus:  string(inv.RefundStatus),
		InvID:         inv.InvID,
		PaymentMethod: inv.PaymentMethod,
		PaidAt:        inv.PaidAt,
	}
	for i := range inv.Participants {
		resp.Participants = append(resp.Participants, ToParticipantResponse(&inv.Participants[i], inv.Status))
	}
	return resp
}

func ToParticipantResponse(p *db_models.Participant, invoiceStatus db_models.InvoiceStatus) ParticipantResponse {
	return ParticipantResponse{
		ID:         p.ID,
		ChildID:    p.ChildID,
		ChildName:  p.ChildName,
		Styles:     p.StyleItems(),
		Options:    p.OptionItems(),
		TotalMinor: p.TotalMinor,
		Paid:       invoiceStatus == db_models.InvoiceStatusPaid,
		Notes:      p.Notes,
	}
}
