package domain

import "time"

// Role enumerates permission levels over tickets.
type Role string

const (
	RoleUser     Role = "USER"
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// AssignableRoles lists roles whose holders may receive ticket assignments.
var AssignableRoles = []Role{RoleEmployee, RoleManager, RoleAdmin}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for anyone who interacts with tickets: requesters,
// agents, managers and administrators, distinguished by role grants.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
