package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/bma/api/internal/database"
	"github.com/stwalsh4118/bma/api/internal/models"
)

// TenantRepository defines data access for tenants.
type TenantRepository interface {
	// Create inserts a tenant. A second active tenancy for the same user
	// surfaces as domain.ConflictError.
	Create(ctx context.Context, t *models.Tenant) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	ListByLease(ctx context.Context, leaseID int64) ([]models.Tenant, error)
	Update(ctx context.Context, t *models.Tenant) error

	// ActiveForUser reports whether the user holds an active tenancy.
	ActiveForUser(ctx context.Context, userID int64) (bool, error)

	// DeactivateByLease marks every active tenant of the lease inactive and
	// returns the affected user IDs.
	DeactivateByLease(ctx context.Context, leaseID int64, actor int64, now time.Time) ([]int64, error)
}

type tenantRepository struct {
	db database.DBTX
}

// NewTenantRepository creates a TenantRepository on db.
func NewTenantRepository(db database.DBTX) TenantRepository {
	return &tenantRepository{db: db}
}

const tenantColumns = `
	tenant_id, lease_id, user_id, move_in_date, move_out_date, application_fee, is_active,
	lease_break_flag, lease_break_date, lease_break_fee, lease_break_reason, notes,
	audit_status, created_at, created_by, modified_at, modified_by`

func (r *tenantRepository) Create(ctx context.Context, t *models.Tenant) error {
	query := `
		INSERT INTO tenants (` + tenantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.Exec(ctx, query,
		t.TenantID, t.LeaseID, t.UserID, t.MoveInDate, t.MoveOutDate, t.ApplicationFee, t.IsActive,
		t.LeaseBreakFlag, t.LeaseBreakDate, t.LeaseBreakFee, t.LeaseBreakReason, t.Notes,
		t.Status, t.CreatedAt, t.CreatedBy, t.ModifiedAt, t.ModifiedBy,
	)
	if err != nil {
		return writeError("tenant", "insert", err)
	}
	return nil
}

func (r *tenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE tenant_id = $1 AND audit_status <> 'deleted'
	`
	t, err := scanTenant(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOrError("tenant", id, err)
	}
	return t, nil
}

func (r *tenantRepository) ListByLease(ctx context.Context, leaseID int64) ([]models.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE lease_id = $1 AND audit_status <> 'deleted'
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants of lease %d: %w", leaseID, err)
	}
	defer rows.Close()

	tenants := []models.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant row: %w", err)
		}
		tenants = append(tenants, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}
	return tenants, nil
}

func (r *tenantRepository) Update(ctx context.Context, t *models.Tenant) error {
	query := `
		UPDATE tenants
		SET move_in_date = $2, move_out_date = $3, application_fee = $4, is_active = $5,
			lease_break_flag = $6, lease_break_date = $7, lease_break_fee = $8, lease_break_reason = $9,
			notes = $10, modified_at = $11, modified_by = $12
		WHERE tenant_id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		t.TenantID, t.MoveInDate, t.MoveOutDate, t.ApplicationFee, t.IsActive,
		t.LeaseBreakFlag, t.LeaseBreakDate, t.LeaseBreakFee, t.LeaseBreakReason,
		t.Notes, t.ModifiedAt, t.ModifiedBy,
	)
	if err != nil {
		return writeError("tenant", "update", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update tenant %s: no rows affected", t.TenantID)
	}
	return nil
}

func (r *tenantRepository) ActiveForUser(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tenants WHERE user_id = $1 AND is_active)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active tenancy for user %d: %w", userID, err)
	}
	return exists, nil
}

func (r *tenantRepository) DeactivateByLease(ctx context.Context, leaseID int64, actor int64, now time.Time) ([]int64, error) {
	query := `
		UPDATE tenants
		SET is_active = FALSE, modified_at = $2, modified_by = COALESCE($3, modified_by)
		WHERE lease_id = $1 AND is_active
		RETURNING user_id
	`
	rows, err := r.db.Query(ctx, query, leaseID, now, actorOrNil(actor))
	if err != nil {
		return nil, writeError("tenant", "deactivate", err)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tenant user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deactivated tenants: %w", err)
	}
	return userIDs, nil
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(
		&t.TenantID, &t.LeaseID, &t.UserID, &t.MoveInDate, &t.MoveOutDate, &t.ApplicationFee, &t.IsActive,
		&t.LeaseBreakFlag, &t.LeaseBreakDate, &t.LeaseBreakFee, &t.LeaseBreakReason, &t.Notes,
		&t.Status, &t.CreatedAt, &t.CreatedBy, &t.ModifiedAt, &t.ModifiedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
