package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/ticketflow/internal/domain"
)

// UserRepository provides user lookups plus the role and membership queries
// the actor resolver needs. Relationships are returned as plain data so the
// visibility policy stays pure.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	RolesOf(ctx context.Context, userID string) ([]domain.Role, error)
	DepartmentsOf(ctx context.Context, userID string) ([]string, error)
	// TeamMemberIDs returns assignable members of every team managed by
	// managerID. Empty when the manager supervises no team.
	TeamMemberIDs(ctx context.Context, managerID string) ([]string, error)
	// ManagedDepartmentIDs returns departments owned by teams managed by
	// managerID.
	ManagedDepartmentIDs(ctx context.Context, managerID string) ([]string, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, status, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, status, created_at, updated_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) RolesOf(ctx context.Context, userID string) ([]domain.Role, error) {
	const query = `SELECT DISTINCT role FROM user_roles WHERE user_id=$1`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *userRepository) DepartmentsOf(ctx context.Context, userID string) ([]string, error) {
	const query = `
        SELECT DISTINCT department_id FROM user_roles
        WHERE user_id=$1 AND department_id IS NOT NULL`
	return r.fetchIDs(ctx, query, userID)
}

func (r *userRepository) TeamMemberIDs(ctx context.Context, managerID string) ([]string, error) {
	const query = `
        SELECT DISTINCT ur.user_id
        FROM user_roles ur
        JOIN teams t ON ur.team_id = t.id
        WHERE t.manager_id=$1 AND ur.role = ANY($2)`
	roles := make([]string, 0, len(domain.AssignableRoles))
	for _, role := range domain.AssignableRoles {
		roles = append(roles, string(role))
	}
	rows, err := r.pool.Query(ctx, query, managerID, roles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

func (r *userRepository) ManagedDepartmentIDs(ctx context.Context, managerID string) ([]string, error) {
	const query = `SELECT DISTINCT department_id FROM teams WHERE manager_id=$1`
	return r.fetchIDs(ctx, query, managerID)
}

func (r *userRepository) fetchIDs(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectIDs(rows)
}

func collectIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
