package service

import (
	"github.com/opsdesk/ticketflow/internal/domain"
	apperrors "github.com/opsdesk/ticketflow/pkg/util"
)

// CanView reports whether the actor may see the ticket.
//
// Any satisfied rule grants access: admins see everything; creators see their
// own tickets; employees see tickets assigned to them plus the unassigned
// queue of their departments; managers see tickets assigned to supervised
// team members, their own assigned tickets, and the unassigned queue of
// departments owned by teams they manage. Managers get no blanket
// department-wide visibility.
func CanView(actor domain.Actor, ticket *domain.Ticket) bool {
	if actor.HasRole(domain.RoleAdmin) {
		return true
	}
	if ticket.CreatedByID == actor.UserID {
		return true
	}
	if actor.HasRole(domain.RoleEmployee) {
		if assignedTo(ticket, actor.UserID) {
			return true
		}
		if !ticket.Assigned() && actor.InDepartment(ticket.DepartmentID) {
			return true
		}
	}
	if actor.HasRole(domain.RoleManager) {
		if ticket.AssignedToID != nil && actor.Supervises(*ticket.AssignedToID) {
			return true
		}
		if assignedTo(ticket, actor.UserID) {
			return true
		}
		if !ticket.Assigned() && actor.ManagesDepartment(ticket.DepartmentID) {
			return true
		}
	}
	return false
}

// CanModify reports whether the actor may mutate the ticket (status,
// priority, closure). Creators as such get view only.
func CanModify(actor domain.Actor, ticket *domain.Ticket) bool {
	if actor.HasRole(domain.RoleAdmin) {
		return true
	}
	if actor.HasRole(domain.RoleEmployee) && assignedTo(ticket, actor.UserID) {
		return true
	}
	if actor.HasRole(domain.RoleManager) {
		if ticket.AssignedToID != nil && actor.Supervises(*ticket.AssignedToID) {
			return true
		}
		if assignedTo(ticket, actor.UserID) {
			return true
		}
	}
	return false
}

// ValidateAssignment checks the actor may assign a ticket to targetID.
// Employees self-assign only; managers assign to themselves or supervised
// team members; admins assign to anyone.
func ValidateAssignment(actor domain.Actor, targetID string) error {
	if actor.HasRole(domain.RoleAdmin) {
		return nil
	}
	if actor.HasRole(domain.RoleManager) {
		if targetID == actor.UserID || actor.Supervises(targetID) {
			return nil
		}
		return apperrors.NewForbidden("target user is not in your team")
	}
	if actor.HasRole(domain.RoleEmployee) {
		if targetID == actor.UserID {
			return nil
		}
		return apperrors.NewForbidden("employees can only self-assign tickets")
	}
	return apperrors.NewForbidden("insufficient permissions to assign ticket")
}

func assignedTo(ticket *domain.Ticket, userID string) bool {
	return ticket.AssignedToID != nil && *ticket.AssignedToID == userID
}
