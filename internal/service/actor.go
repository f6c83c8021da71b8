package service

import (
	"context"

	"github.com/opsdesk/ticketflow/internal/domain"
	"github.com/opsdesk/ticketflow/internal/repository"
)

// ActorResolver builds the capability set for a caller once per operation.
// The resulting Actor is plain data; no further lookups happen during
// policy evaluation.
type ActorResolver struct {
	users repository.UserRepository
}

// NewActorResolver constructs the resolver.
func NewActorResolver(users repository.UserRepository) *ActorResolver {
	return &ActorResolver{users: users}
}

// Resolve loads roles and memberships for userID. A manager with no
// supervised team gets empty member and department sets, not an error.
func (r *ActorResolver) Resolve(ctx context.Context, userID string) (domain.Actor, error) {
	actor := domain.Actor{
		UserID:               userID,
		Roles:                make(map[domain.Role]struct{}),
		DepartmentIDs:        make(map[string]struct{}),
		TeamMemberIDs:        make(map[string]struct{}),
		ManagedDepartmentIDs: make(map[string]struct{}),
	}

	roles, err := r.users.RolesOf(ctx, userID)
	if err != nil {
		return domain.Actor{}, err
	}
	for _, role := range roles {
		actor.Roles[role] = struct{}{}
	}

	if actor.HasAnyRole(domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin) {
		departments, err := r.users.DepartmentsOf(ctx, userID)
		if err != nil {
			return domain.Actor{}, err
		}
		for _, id := range departments {
			actor.DepartmentIDs[id] = struct{}{}
		}
	}

	if actor.HasRole(domain.RoleManager) {
		members, err := r.users.TeamMemberIDs(ctx, userID)
		if err != nil {
			return domain.Actor{}, err
		}
		for _, id := range members {
			actor.TeamMemberIDs[id] = struct{}{}
		}

		managed, err := r.users.ManagedDepartmentIDs(ctx, userID)
		if err != nil {
			return domain.Actor{}, err
		}
		for _, id := range managed {
			actor.ManagedDepartmentIDs[id] = struct{}{}
		}
	}

	return actor, nil
}
