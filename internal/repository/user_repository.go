package repository

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/bma/api/internal/database"
	"github.com/stwalsh4118/bma/api/internal/models"
)

// UserRepository is the user directory consumed by the booking workflow.
// Accounts themselves are managed outside this service.
type UserRepository interface {
	// FindActiveByEmail matches the email case-insensitively and returns
	// nil, nil when no active user has it.
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	SetTenantFlag(ctx context.Context, id int64, isTenant bool) error
}

type userRepository struct {
	db database.DBTX
}

// NewUserRepository creates a UserRepository on db.
func NewUserRepository(db database.DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, first_name, last_name, is_admin, is_tenant, is_active`

func (r *userRepository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) AND is_active`

	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, notFoundOrError("user", email, err)
	}
	return u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOrError("user", id, err)
	}
	return u, nil
}

func (r *userRepository) SetTenantFlag(ctx context.Context, id int64, isTenant bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_tenant = $2 WHERE id = $1`, id, isTenant)
	if err != nil {
		return writeError("user", "update", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update user %d: no rows affected", id)
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.IsAdmin, &u.IsTenant, &u.IsActive); err != nil {
		return nil, err
	}
	return &u, nil
}
