package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsdesk/ticketflow/internal/domain"
	apperrors "github.com/opsdesk/ticketflow/pkg/util"
)

func newActor(userID string, roles ...domain.Role) domain.Actor {
	actor := domain.Actor{
		UserID:               userID,
		Roles:                make(map[domain.Role]struct{}),
		DepartmentIDs:        make(map[string]struct{}),
		TeamMemberIDs:        make(map[string]struct{}),
		ManagedDepartmentIDs: make(map[string]struct{}),
	}
	for _, role := range roles {
		actor.Roles[role] = struct{}{}
	}
	return actor
}

func assignedTicket(createdBy, assignee, departmentID string) *domain.Ticket {
	return &domain.Ticket{
		ID:           "tkt-1",
		CreatedByID:  createdBy,
		AssignedToID: &assignee,
		DepartmentID: departmentID,
		Status:       domain.TicketStatusAssigned,
	}
}

func unassignedTicket(createdBy, departmentID string) *domain.Ticket {
	return &domain.Ticket{
		ID:           "tkt-1",
		CreatedByID:  createdBy,
		DepartmentID: departmentID,
		Status:       domain.TicketStatusNew,
	}
}

func TestCanView_AdminSeesEverything(t *testing.T) {
	admin := newActor("admin-1", domain.RoleAdmin)
	assert.True(t, CanView(admin, assignedTicket("someone", "other", "dept-x")))
	assert.True(t, CanView(admin, unassignedTicket("someone", "dept-x")))
}

func TestCanView_CreatorSeesOwnTicket(t *testing.T) {
	creator := newActor("user-1", domain.RoleUser)
	assert.True(t, CanView(creator, unassignedTicket("user-1", "dept-x")))
	assert.True(t, CanView(creator, assignedTicket("user-1", "agent-1", "dept-x")))
}

func TestCanView_StrangerSeesNothing(t *testing.T) {
	stranger := newActor("user-2", domain.RoleUser)
	assert.False(t, CanView(stranger, unassignedTicket("user-1", "dept-x")))
	assert.False(t, CanView(stranger, assignedTicket("user-1", "agent-1", "dept-x")))
}

func TestCanView_EmployeeAssignee(t *testing.T) {
	employee := newActor("agent-1", domain.RoleEmployee)
	assert.True(t, CanView(employee, assignedTicket("user-1", "agent-1", "dept-x")))
	assert.False(t, CanView(employee, assignedTicket("user-1", "agent-2", "dept-x")))
}

func TestCanView_EmployeeDepartmentQueue(t *testing.T) {
	employee := newActor("agent-1", domain.RoleEmployee)
	employee.DepartmentIDs["dept-x"] = struct{}{}

	// Unassigned in own department is visible, assigned to a peer is not.
	assert.True(t, CanView(employee, unassignedTicket("user-1", "dept-x")))
	assert.False(t, CanView(employee, assignedTicket("user-1", "agent-2", "dept-x")))
	assert.False(t, CanView(employee, unassignedTicket("user-1", "dept-y")))
}

func TestCanView_ManagerSupervisedAssignee(t *testing.T) {
	manager := newActor("mgr-1", domain.RoleManager)
	manager.TeamMemberIDs["agent-1"] = struct{}{}

	assert.True(t, CanView(manager, assignedTicket("user-1", "agent-1", "dept-x")))
	assert.False(t, CanView(manager, assignedTicket("user-1", "agent-9", "dept-x")))
}

func TestCanView_ManagerNoDepartmentWideAccess(t *testing.T) {
	manager := newActor("mgr-1", domain.RoleManager)
	manager.DepartmentIDs["dept-x"] = struct{}{}

	// Plain department membership grants nothing beyond the employee rules
	// the manager does not hold.
	assert.False(t, CanView(manager, assignedTicket("user-1", "agent-1", "dept-x")))
}

func TestCanView_ManagerQueueOfManagedDepartment(t *testing.T) {
	manager := newActor("mgr-1", domain.RoleManager)
	manager.ManagedDepartmentIDs["dept-x"] = struct{}{}

	assert.True(t, CanView(manager, unassignedTicket("user-1", "dept-x")))
	assert.False(t, CanView(manager, unassignedTicket("user-1", "dept-y")))
}

func TestCanView_ManagerWithNoTeam(t *testing.T) {
	manager := newActor("mgr-1", domain.RoleManager)
	assert.False(t, CanView(manager, assignedTicket("user-1", "agent-1", "dept-x")))
	assert.True(t, CanView(manager, assignedTicket("mgr-1", "agent-1", "dept-x")))
}

func TestCanModify_CreatorIsViewOnly(t *testing.T) {
	creator := newActor("user-1", domain.RoleUser)
	ticket := assignedTicket("user-1", "agent-1", "dept-x")

	assert.True(t, CanView(creator, ticket))
	assert.False(t, CanModify(creator, ticket))
}

func TestCanModify_EmployeeOnlyOwnAssignments(t *testing.T) {
	employee := newActor("agent-1", domain.RoleEmployee)
	employee.DepartmentIDs["dept-x"] = struct{}{}

	assert.True(t, CanModify(employee, assignedTicket("user-1", "agent-1", "dept-x")))
	assert.False(t, CanModify(employee, assignedTicket("user-1", "agent-2", "dept-x")))
	// Queue visibility does not imply modify rights.
	assert.False(t, CanModify(employee, unassignedTicket("user-1", "dept-x")))
}

func TestCanModify_ManagerSupervisedAndOwn(t *testing.T) {
	manager := newActor("mgr-1", domain.RoleManager)
	manager.TeamMemberIDs["agent-1"] = struct{}{}

	assert.True(t, CanModify(manager, assignedTicket("user-1", "agent-1", "dept-x")))
	assert.True(t, CanModify(manager, assignedTicket("user-1", "mgr-1", "dept-x")))
	assert.False(t, CanModify(manager, assignedTicket("user-1", "agent-9", "dept-x")))
}

func TestValidateAssignment_EmployeeSelfOnly(t *testing.T) {
	employee := newActor("agent-1", domain.RoleEmployee)

	assert.NoError(t, ValidateAssignment(employee, "agent-1"))
	err := ValidateAssignment(employee, "agent-2")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestValidateAssignment_ManagerTeamScope(t *testing.T) {
	manager := newActor("mgr-1", domain.RoleManager)
	manager.TeamMemberIDs["agent-1"] = struct{}{}

	assert.NoError(t, ValidateAssignment(manager, "mgr-1"))
	assert.NoError(t, ValidateAssignment(manager, "agent-1"))
	err := ValidateAssignment(manager, "agent-9")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}

func TestValidateAssignment_AdminUnrestricted(t *testing.T) {
	admin := newActor("admin-1", domain.RoleAdmin)
	assert.NoError(t, ValidateAssignment(admin, "anyone"))
}

func TestValidateAssignment_BaseRoleForbidden(t *testing.T) {
	user := newActor("user-1", domain.RoleUser)
	err := ValidateAssignment(user, "user-1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
}
