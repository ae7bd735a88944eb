package repository

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/bma/api/internal/database"
	"github.com/stwalsh4118/bma/api/internal/models"
)

// LeaseRepository defines data access for leases.
type LeaseRepository interface {
	// Create inserts the lease and sets its generated agreement number.
	Create(ctx context.Context, l *models.Lease) error

	FindByNumber(ctx context.Context, number int64) (*models.Lease, error)
	LockByNumber(ctx context.Context, number int64) (*models.Lease, error)

	// HasOpenLease reports whether the apartment has a not_started or
	// started lease.
	HasOpenLease(ctx context.Context, apartment int) (bool, error)

	// Update persists the lifecycle fields: status, lease-break fields and
	// modification audit.
	Update(ctx context.Context, l *models.Lease) error
}

type leaseRepository struct {
	db database.DBTX
}

// NewLeaseRepository creates a LeaseRepository on db.
func NewLeaseRepository(db database.DBTX) LeaseRepository {
	return &leaseRepository{db: db}
}

const leaseColumns = `
	agreement_number, apartment_number, start_date, end_date, duration, lease_status,
	rent_amount, security_deposit, additional_charges, payment_schedule,
	fees, discounts, lease_notes, lease_exemption,
	lease_break_flag, lease_break_date, lease_break_reason,
	audit_status, created_at, created_by, modified_at, modified_by`

func (r *leaseRepository) Create(ctx context.Context, l *models.Lease) error {
	query := `
		INSERT INTO leases (
			apartment_number, start_date, end_date, duration, lease_status,
			rent_amount, security_deposit, additional_charges, payment_schedule,
			fees, discounts, lease_notes, lease_exemption,
			audit_status, created_at, created_by, modified_at, modified_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING agreement_number
	`
	err := r.db.QueryRow(ctx, query,
		l.ApartmentNumber, l.StartDate, l.EndDate, l.Duration, l.LeaseStatus,
		l.RentAmount, l.SecurityDeposit, l.AdditionalCharges, l.PaymentSchedule,
		l.Fees, l.Discounts, l.LeaseNotes, l.LeaseExemption,
		l.Status, l.CreatedAt, l.CreatedBy, l.ModifiedAt, l.ModifiedBy,
	).Scan(&l.AgreementNumber)
	if err != nil {
		return writeError("lease", "insert", err)
	}
	return nil
}

func (r *leaseRepository) FindByNumber(ctx context.Context, number int64) (*models.Lease, error) {
	return r.find(ctx, number, "")
}

func (r *leaseRepository) LockByNumber(ctx context.Context, number int64) (*models.Lease, error) {
	return r.find(ctx, number, "FOR UPDATE")
}

func (r *leaseRepository) find(ctx context.Context, number int64, lock string) (*models.Lease, error) {
	query := `
		SELECT ` + leaseColumns + `
		FROM leases
		WHERE agreement_number = $1 AND audit_status <> 'deleted'
		` + lock

	l, err := scanLease(r.db.QueryRow(ctx, query, number))
	if err != nil {
		return nil, notFoundOrError("lease", number, err)
	}
	return l, nil
}

func (r *leaseRepository) HasOpenLease(ctx context.Context, apartment int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM leases
			WHERE apartment_number = $1
				AND lease_status IN ('not_started', 'started')
				AND audit_status <> 'deleted'
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, apartment).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check open lease for apartment %d: %w", apartment, err)
	}
	return exists, nil
}

func (r *leaseRepository) Update(ctx context.Context, l *models.Lease) error {
	query := `
		UPDATE leases
		SET lease_status = $2, lease_break_flag = $3, lease_break_date = $4, lease_break_reason = $5,
			modified_at = $6, modified_by = $7
		WHERE agreement_number = $1
	`
	tag, err := r.db.Exec(ctx, query,
		l.AgreementNumber, l.LeaseStatus, l.LeaseBreakFlag, l.LeaseBreakDate, l.LeaseBreakReason,
		l.ModifiedAt, l.ModifiedBy,
	)
	if err != nil {
		return writeError("lease", "update", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update lease %d: no rows affected", l.AgreementNumber)
	}
	return nil
}

func scanLease(row rowScanner) (*models.Lease, error) {
	var l models.Lease
	err := row.Scan(
		&l.AgreementNumber, &l.ApartmentNumber, &l.StartDate, &l.EndDate, &l.Duration, &l.LeaseStatus,
		&l.RentAmount, &l.SecurityDeposit, &l.AdditionalCharges, &l.PaymentSchedule,
		&l.Fees, &l.Discounts, &l.LeaseNotes, &l.LeaseExemption,
		&l.LeaseBreakFlag, &l.LeaseBreakDate, &l.LeaseBreakReason,
		&l.Status, &l.CreatedAt, &l.CreatedBy, &l.ModifiedAt, &l.ModifiedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
