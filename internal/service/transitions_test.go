package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsdesk/ticketflow/internal/domain"
	apperrors "github.com/opsdesk/ticketflow/pkg/util"
)

var allStatuses = []domain.TicketStatus{
	domain.TicketStatusNew,
	domain.TicketStatusAssigned,
	domain.TicketStatusInProgress,
	domain.TicketStatusWaiting,
	domain.TicketStatusOnHold,
	domain.TicketStatusClosed,
}

func TestValidateTransition_Table(t *testing.T) {
	allowed := map[domain.TicketStatus]map[domain.TicketStatus]bool{
		domain.TicketStatusNew: {
			domain.TicketStatusAssigned: true,
		},
		domain.TicketStatusAssigned: {
			domain.TicketStatusInProgress: true,
			domain.TicketStatusWaiting:    true,
			domain.TicketStatusOnHold:     true,
			domain.TicketStatusClosed:     true,
		},
		domain.TicketStatusInProgress: {
			domain.TicketStatusWaiting: true,
			domain.TicketStatusOnHold:  true,
			domain.TicketStatusClosed:  true,
		},
		domain.TicketStatusWaiting: {
			domain.TicketStatusInProgress: true,
			domain.TicketStatusOnHold:     true,
			domain.TicketStatusClosed:     true,
		},
		domain.TicketStatusOnHold: {
			domain.TicketStatusInProgress: true,
			domain.TicketStatusWaiting:    true,
			domain.TicketStatusClosed:     true,
		},
		domain.TicketStatusClosed: {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := ValidateTransition(from, to)
			if allowed[from][to] {
				assert.NoError(t, err, "%s -> %s should be allowed", from, to)
			} else {
				assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition),
					"%s -> %s should be rejected", from, to)
			}
		}
	}
}

func TestValidateTransition_ClosedIsTerminal(t *testing.T) {
	for _, to := range allStatuses {
		err := ValidateTransition(domain.TicketStatusClosed, to)
		assert.Error(t, err, "Closed -> %s must be rejected", to)
	}
}

func TestValidateTransition_SelfTransitionRejected(t *testing.T) {
	for _, status := range allStatuses {
		assert.Error(t, ValidateTransition(status, status), "%s -> %s", status, status)
	}
}

func TestValidateTransition_UnknownStatusRejected(t *testing.T) {
	err := ValidateTransition(domain.TicketStatus("Archived"), domain.TicketStatusClosed)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
}
