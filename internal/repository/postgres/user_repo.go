package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"eventhub/internal/domain"
)

const uniqueViolation = "23505"

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `u.id, u.username, u.email, u.password_hash, u.salt, u.first_name, u.last_name,
	u.phone_number, u.profile_image, u.is_active, u.is_superuser, u.created_at, u.updated_at`

const userSelect = `
	SELECT ` + userColumns + `,
		COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}') AS roles
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
`

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var roles []string
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt, &u.FirstName, &u.LastName,
		&u.PhoneNumber, &u.ProfileImage, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt,
		pq.Array(&roles),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	for _, r := range roles {
		if role, ok := domain.ParseRole(r); ok {
			u.Roles = append(u.Roles, role)
		}
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, salt, first_name, last_name,
			phone_number, profile_image, is_active, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.Salt, u.FirstName, u.LastName,
		u.PhoneNumber, u.ProfileImage, u.IsActive, u.IsSuperuser, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	return mapUserConstraintError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := userSelect + `WHERE u.id = $1 GROUP BY u.id`
	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := userSelect + `WHERE u.email = $1 GROUP BY u.id`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := userSelect + `WHERE u.username = $1 GROUP BY u.id`
	return scanUser(r.DB.QueryRowContext(ctx, query, username))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, phone_number = $4,
			profile_image = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.DB.ExecContext(ctx, query,
		u.Email, u.FirstName, u.LastName, u.PhoneNumber, u.ProfileImage, u.UpdatedAt, u.ID,
	)
	if err != nil {
		return mapUserConstraintError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash, salt string) error {
	query := `UPDATE users SET password_hash = $1, salt = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.DB.ExecContext(ctx, query, passwordHash, salt, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Activate(ctx context.Context, userID string) error {
	query := `UPDATE users SET is_active = TRUE, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) AssignRole(ctx context.Context, userID string, role domain.Role) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, userID, string(role))
	return err
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.first_name, u.last_name, u.phone_number,
			u.profile_image, u.is_active, u.is_superuser, u.created_at, u.updated_at
		FROM users u
		INNER JOIN user_roles ur ON ur.user_id = u.id
		WHERE ur.role = $1
		ORDER BY u.username
	`
	rows, err := r.DB.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{Roles: []domain.Role{role}}
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber,
			&u.ProfileImage, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// mapUserConstraintError translates unique-violation errors on users into
// the matching domain sentinel.
func mapUserConstraintError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if strings.Contains(pqErr.Constraint, "username") {
			return domain.ErrDuplicateUsername
		}
		return domain.ErrDuplicateEmail
	}
	return err
}
