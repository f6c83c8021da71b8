package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Values are stored
// as display strings so ticket data stays interchangeable with upstream
// reporting tools.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "New"
	TicketStatusAssigned   TicketStatus = "Assigned"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusWaiting    TicketStatus = "Waiting"
	TicketStatusOnHold     TicketStatus = "On Hold"
	TicketStatusClosed     TicketStatus = "Closed"
)

// Ticket is the workflow aggregate for service-desk requests.
//
// Once IsClosed is true the ticket is immutable: ClosureCodeID and ClosedAt
// are set together with it and no field may change afterwards. Version starts
// at 1 and advances by exactly one per committed mutation.
type Ticket struct {
	ID            string
	TicketNumber  string
	Title         string
	Description   string
	CategoryID    string
	SubcategoryID string
	DepartmentID  string
	CreatedByID   string
	AssignedToID  *string
	AssignedAt    *time.Time
	Priority      *int
	Status        TicketStatus
	IsClosed      bool
	ClosureCodeID *string
	ClosedAt      *time.Time
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Assigned reports whether the ticket has an assignee.
func (t *Ticket) Assigned() bool {
	return t.AssignedToID != nil
}

// ValidPriority reports whether p is an acceptable priority value (P1-P4).
func ValidPriority(p int) bool {
	return p >= 1 && p <= 4
}
