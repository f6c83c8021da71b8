package service

import (
	"github.com/opsdesk/ticketflow/internal/domain"
	apperrors "github.com/opsdesk/ticketflow/pkg/util"
)

// allowedTransitions is the fixed workflow table. Closed is terminal.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew:        {domain.TicketStatusAssigned},
	domain.TicketStatusAssigned:   {domain.TicketStatusInProgress, domain.TicketStatusWaiting, domain.TicketStatusOnHold, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusWaiting, domain.TicketStatusOnHold, domain.TicketStatusClosed},
	domain.TicketStatusWaiting:    {domain.TicketStatusInProgress, domain.TicketStatusOnHold, domain.TicketStatusClosed},
	domain.TicketStatusOnHold:     {domain.TicketStatusInProgress, domain.TicketStatusWaiting, domain.TicketStatusClosed},
	domain.TicketStatusClosed:     {},
}

// ValidateTransition returns nil when the workflow table permits moving from
// current to target, and an INVALID_STATUS_TRANSITION error otherwise.
func ValidateTransition(current, target domain.TicketStatus) error {
	for _, candidate := range allowedTransitions[current] {
		if candidate == target {
			return nil
		}
	}
	return apperrors.NewInvalidTransition(string(current), string(target))
}
