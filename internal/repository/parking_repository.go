package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/bma/api/internal/database"
	"github.com/stwalsh4118/bma/api/internal/models"
)

// ParkingRepository defines data access for parking spots.
type ParkingRepository interface {
	// Create inserts the spot and sets its generated parking number.
	Create(ctx context.Context, p *models.ParkingSpot) error

	FindByNumber(ctx context.Context, number int) (*models.ParkingSpot, error)
	LockByNumber(ctx context.Context, number int) (*models.ParkingSpot, error)
	Update(ctx context.Context, p *models.ParkingSpot) error

	// CountByBuilding counts the non-deleted spots of a building.
	CountByBuilding(ctx context.Context, building string) (int, error)

	// CountInUseByApartment counts reserved or occupied spots of an apartment.
	CountInUseByApartment(ctx context.Context, apartment int) (int, error)

	// ReleaseByApartment returns every spot of the apartment to available
	// and clears its apartment and lease links.
	ReleaseByApartment(ctx context.Context, apartment int, actor int64, now time.Time) (int64, error)
}

type parkingRepository struct {
	db database.DBTX
}

// NewParkingRepository creates a ParkingRepository on db.
func NewParkingRepository(db database.DBTX) ParkingRepository {
	return &parkingRepository{db: db}
}

const parkingColumns = `
	parking_number, building_number, apartment_number, lease_agreement_number,
	parking_type, parking_status, parking_fee,
	audit_status, created_at, created_by, modified_at, modified_by`

func (r *parkingRepository) Create(ctx context.Context, p *models.ParkingSpot) error {
	query := `
		INSERT INTO parking_spots (
			building_number, apartment_number, lease_agreement_number,
			parking_type, parking_status, parking_fee,
			audit_status, created_at, created_by, modified_at, modified_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING parking_number
	`
	err := r.db.QueryRow(ctx, query,
		p.BuildingNumber, p.ApartmentNumber, p.LeaseAgreementNumber,
		p.ParkingType, p.ParkingStatus, p.ParkingFee,
		p.Status, p.CreatedAt, p.CreatedBy, p.ModifiedAt, p.ModifiedBy,
	).Scan(&p.ParkingNumber)
	if err != nil {
		return writeError("parking spot", "insert", err)
	}
	return nil
}

func (r *parkingRepository) FindByNumber(ctx context.Context, number int) (*models.ParkingSpot, error) {
	return r.find(ctx, number, "")
}

func (r *parkingRepository) LockByNumber(ctx context.Context, number int) (*models.ParkingSpot, error) {
	return r.find(ctx, number, "FOR UPDATE")
}

func (r *parkingRepository) find(ctx context.Context, number int, lock string) (*models.ParkingSpot, error) {
	query := `
		SELECT ` + parkingColumns + `
		FROM parking_spots
		WHERE parking_number = $1 AND audit_status <> 'deleted'
		` + lock

	p, err := scanParkingSpot(r.db.QueryRow(ctx, query, number))
	if err != nil {
		return nil, notFoundOrError("parking spot", number, err)
	}
	return p, nil
}

func (r *parkingRepository) Update(ctx context.Context, p *models.ParkingSpot) error {
	query := `
		UPDATE parking_spots
		SET apartment_number = $2, lease_agreement_number = $3, parking_type = $4,
			parking_status = $5, parking_fee = $6, modified_at = $7, modified_by = $8
		WHERE parking_number = $1
	`
	tag, err := r.db.Exec(ctx, query,
		p.ParkingNumber, p.ApartmentNumber, p.LeaseAgreementNumber, p.ParkingType,
		p.ParkingStatus, p.ParkingFee, p.ModifiedAt, p.ModifiedBy,
	)
	if err != nil {
		return writeError("parking spot", "update", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update parking spot %d: no rows affected", p.ParkingNumber)
	}
	return nil
}

func (r *parkingRepository) CountByBuilding(ctx context.Context, building string) (int, error) {
	query := `SELECT COUNT(*) FROM parking_spots WHERE building_number = $1 AND audit_status <> 'deleted'`

	var count int
	if err := r.db.QueryRow(ctx, query, building).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count parking spots of building %s: %w", building, err)
	}
	return count, nil
}

func (r *parkingRepository) CountInUseByApartment(ctx context.Context, apartment int) (int, error) {
	query := `
		SELECT COUNT(*) FROM parking_spots
		WHERE apartment_number = $1
			AND parking_status IN ('reserved', 'occupied')
			AND audit_status <> 'deleted'
	`
	var count int
	if err := r.db.QueryRow(ctx, query, apartment).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count parking spots of apartment %d: %w", apartment, err)
	}
	return count, nil
}

func (r *parkingRepository) ReleaseByApartment(ctx context.Context, apartment int, actor int64, now time.Time) (int64, error) {
	query := `
		UPDATE parking_spots
		SET parking_status = 'available', apartment_number = NULL, lease_agreement_number = NULL,
			modified_at = $2, modified_by = COALESCE($3, modified_by)
		WHERE apartment_number = $1
	`
	tag, err := r.db.Exec(ctx, query, apartment, now, actorOrNil(actor))
	if err != nil {
		return 0, writeError("parking spot", "release", err)
	}
	return tag.RowsAffected(), nil
}

func scanParkingSpot(row rowScanner) (*models.ParkingSpot, error) {
	var p models.ParkingSpot
	err := row.Scan(
		&p.ParkingNumber, &p.BuildingNumber, &p.ApartmentNumber, &p.LeaseAgreementNumber,
		&p.ParkingType, &p.ParkingStatus, &p.ParkingFee,
		&p.Status, &p.CreatedAt, &p.CreatedBy, &p.ModifiedAt, &p.ModifiedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
