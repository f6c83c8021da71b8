package events

import (
	"time"

	"github.com/opsdesk/ticketflow/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketClosed          EventType = "ticket_closed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
)

// AllEventTypes lists every event the workflow emits.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketAssigned,
	EventTicketStatusChanged,
	EventTicketClosed,
	EventTicketPriorityChanged,
}

// Event represents a workflow event emitted after a successful operation.
/// Emission is observational only: a failed emit never fails the operation
// that produced it.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketID     string      `json:"ticket_id"`
	TicketNumber string      `json:"ticket_number"`
	ActorID      string      `json:"actor_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DepartmentID string `json:"department_id"`
	CategoryID   string `json:"category_id"`
	Title        string `json:"title"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedToID string              `json:"assigned_to_id"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Note      string              `json:"note"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	ClosureCodeID string              `json:"closure_code_id"`
	OldStatus     domain.TicketStatus `json:"old_status"`
	Note          string              `json:"note"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority *int `json:"old_priority"`
	NewPriority int  `json:"new_priority"`
}
