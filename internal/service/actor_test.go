package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/ticketflow/internal/domain"
)

func TestResolve_BaseUserHasNoMemberships(t *testing.T) {
	users := newFakeUserRepo()
	users.addUser("user-1", domain.RoleUser)
	users.departments["user-1"] = []string{"dept-x"}

	actor, err := NewActorResolver(users).Resolve(context.Background(), "user-1")
	require.NoError(t, err)

	assert.True(t, actor.HasRole(domain.RoleUser))
	// Department grants only count for staff roles.
	assert.Empty(t, actor.DepartmentIDs)
	assert.Empty(t, actor.TeamMemberIDs)
}

func TestResolve_Employee(t *testing.T) {
	users := newFakeUserRepo()
	users.addUser("agent-1", domain.RoleEmployee)
	users.departments["agent-1"] = []string{"dept-x", "dept-y"}

	actor, err := NewActorResolver(users).Resolve(context.Background(), "agent-1")
	require.NoError(t, err)

	assert.True(t, actor.InDepartment("dept-x"))
	assert.True(t, actor.InDepartment("dept-y"))
	assert.False(t, actor.InDepartment("dept-z"))
	assert.Empty(t, actor.TeamMemberIDs)
}

func TestResolve_ManagerWithTeam(t *testing.T) {
	users := newFakeUserRepo()
	users.addUser("mgr-1", domain.RoleManager)
	users.departments["mgr-1"] = []string{"dept-x"}
	users.teamMembers["mgr-1"] = []string{"agent-1", "agent-2"}
	users.managedDeps["mgr-1"] = []string{"dept-x"}

	actor, err := NewActorResolver(users).Resolve(context.Background(), "mgr-1")
	require.NoError(t, err)

	assert.True(t, actor.Supervises("agent-1"))
	assert.True(t, actor.Supervises("agent-2"))
	assert.False(t, actor.Supervises("agent-9"))
	assert.True(t, actor.ManagesDepartment("dept-x"))
}

func TestResolve_ManagerWithoutTeam(t *testing.T) {
	users := newFakeUserRepo()
	users.addUser("mgr-1", domain.RoleManager)

	actor, err := NewActorResolver(users).Resolve(context.Background(), "mgr-1")
	require.NoError(t, err)

	assert.True(t, actor.HasRole(domain.RoleManager))
	assert.Empty(t, actor.TeamMemberIDs)
	assert.Empty(t, actor.ManagedDepartmentIDs)
}
