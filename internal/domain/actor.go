package domain

// Actor is the capability set of a caller, resolved once per operation from
// role and membership data and passed into the visibility policy as a plain
// value. The policy never reaches back into storage mid-check.
type Actor struct {
	UserID string
	Roles  map[Role]struct{}

	// DepartmentIDs the actor belongs to through role grants.
	DepartmentIDs map[string]struct{}

	// TeamMemberIDs holds the members of every team the actor manages.
	// Empty for non-managers and for managers with no team.
	TeamMemberIDs map[string]struct{}

	// ManagedDepartmentIDs holds the departments owned by managed teams.
	ManagedDepartmentIDs map[string]struct{}
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role Role) bool {
	_, ok := a.Roles[role]
	return ok
}

// HasAnyRole reports whether the actor holds at least one of the roles.
func (a Actor) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if a.HasRole(role) {
			return true
		}
	}
	return false
}

// InDepartment reports department membership.
func (a Actor) InDepartment(departmentID string) bool {
	_, ok := a.DepartmentIDs[departmentID]
	return ok
}

// Supervises reports whether userID belongs to a team the actor manages.
func (a Actor) Supervises(userID string) bool {
	_, ok := a.TeamMemberIDs[userID]
	return ok
}

// ManagesDepartment reports whether a team the actor manages owns the
// department.
func (a Actor) ManagesDepartment(departmentID string) bool {
	_, ok := a.ManagedDepartmentIDs[departmentID]
	return ok
}
