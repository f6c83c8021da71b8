package dto

import (
	"time"

	"github.com/opsdesk/ticketflow/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CategoryID    string `json:"category_id"`
	SubcategoryID string `json:"subcategory_id"`
}

// AssignTicketRequest payload. An empty assigned_to means self-assignment.
// Version, when present, enables the optimistic concurrency check.
type AssignTicketRequest struct {
	AssignedTo *string `json:"assigned_to,omitempty"`
	Note       string  `json:"note,omitempty"`
	Version    *int    `json:"version,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Note    string              `json:"note"`
	Version *int                `json:"version,omitempty"`
}

// CloseTicketRequest payload.
type CloseTicketRequest struct {
	ClosureCodeID string `json:"closure_code_id"`
	Note          string `json:"note"`
	Version       *int   `json:"version,omitempty"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority int    `json:"priority"`
	Note     string `json:"note"`
	Version  *int   `json:"version,omitempty"`
}

// TicketResponse provides full ticket info. Priority is an internal triage
// field and is omitted for callers holding only the base role.
type TicketResponse struct {
	ID            string              `json:"id"`
	TicketNumber  string              `json:"ticket_number"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	CategoryID    string              `json:"category_id"`
	SubcategoryID string              `json:"subcategory_id"`
	DepartmentID  string              `json:"department_id"`
	CreatedBy     string              `json:"created_by"`
	AssignedTo    *string             `json:"assigned_to"`
	AssignedAt    *time.Time          `json:"assigned_at"`
	Priority      *int                `json:"priority,omitempty"`
	Status        domain.TicketStatus `json:"status"`
	IsClosed      bool                `json:"is_closed"`
	ClosureCodeID *string             `json:"closure_code_id"`
	ClosedAt      *time.Time          `json:"closed_at"`
	Version       int                 `json:"version"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// HistoryEntryResponse represents one audit trail entry.
type HistoryEntryResponse struct {
	ID        string              `json:"id"`
	OldStatus domain.TicketStatus `json:"old_status,omitempty"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Note      string              `json:"note"`
	ChangedBy string              `json:"changed_by"`
	ChangedAt time.Time           `json:"changed_at"`
}

// NewTicketResponse maps a domain ticket. Staff viewers see the priority,
// base-role viewers do not.
func NewTicketResponse(t *domain.Ticket, includePriority bool) TicketResponse {
	resp := TicketResponse{
		ID:            t.ID,
		TicketNumber:  t.TicketNumber,
		Title:         t.Title,
		Description:   t.Description,
		CategoryID:    t.CategoryID,
		SubcategoryID: t.SubcategoryID,
		DepartmentID:  t.DepartmentID,
		CreatedBy:     t.CreatedByID,
		AssignedTo:    t.AssignedToID,
		AssignedAt:    t.AssignedAt,
		Status:        t.Status,
		IsClosed:      t.IsClosed,
		ClosureCodeID: t.ClosureCodeID,
		ClosedAt:      t.ClosedAt,
		Version:       t.Version,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if includePriority {
		resp.Priority = t.Priority
	}
	return resp
}

// NewTicketResponses maps a slice of tickets.
func NewTicketResponses(tickets []domain.Ticket, includePriority bool) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i], includePriority))
	}
	return out
}

// NewHistoryResponses maps audit entries.
func NewHistoryResponses(entries []domain.TicketHistory) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			ID:        e.ID,
			OldStatus: e.OldStatus,
			NewStatus: e.NewStatus,
			Note:      e.Note,
			ChangedBy: e.ChangedByID,
			ChangedAt: e.ChangedAt,
		})
	}
	return out
}
