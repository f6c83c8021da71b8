package domain

import "time"

// TicketHistory is an append-only audit record. Exactly one entry is written
// for every committed ticket mutation, including creation (OldStatus empty).
// Entries are never updated or deleted.
type TicketHistory struct {
	ID          string
	TicketID    string
	OldStatus   TicketStatus
	NewStatus   TicketStatus
	Note        string
	ChangedByID string
	ChangedAt   time.Time
}

// CreationNote is the auto-generated note on the initial history entry.
const CreationNote = "Ticket created"
