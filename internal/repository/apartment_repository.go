package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/bma/api/internal/database"
	"github.com/stwalsh4118/bma/api/internal/models"
)

// ApartmentRepository defines data access for apartments.
type ApartmentRepository interface {
	// Create inserts an apartment whose number has already been allocated.
	// A duplicate number surfaces as domain.ConflictError.
	Create(ctx context.Context, a *models.Apartment) error

	FindByNumber(ctx context.Context, number int) (*models.Apartment, error)
	LockByNumber(ctx context.Context, number int) (*models.Apartment, error)

	// CountOnFloor counts every apartment ever created on the floor,
	// soft-deleted ones included, since their numbers stay taken.
	CountOnFloor(ctx context.Context, building string, floor int) (int, error)

	SetAvailability(ctx context.Context, number int, available bool, actor int64, now time.Time) error
}

type apartmentRepository struct {
	db database.DBTX
}

// NewApartmentRepository creates an ApartmentRepository on db.
func NewApartmentRepository(db database.DBTX) ApartmentRepository {
	return &apartmentRepository{db: db}
}

const apartmentColumns = `
	apartment_number, building_number, floor_number, description, price,
	bedrooms, bathrooms, closets, no_of_occupants, stove, laundry,
	is_available, dishwasher, microwave, carpet, refrigerator, air_condition, pets, smoking,
	audit_status, created_at, created_by, modified_at, modified_by`

func (r *apartmentRepository) Create(ctx context.Context, a *models.Apartment) error {
	query := `
		INSERT INTO apartments (` + apartmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`
	_, err := r.db.Exec(ctx, query,
		a.ApartmentNumber, a.BuildingNumber, a.FloorNumber, a.Description, a.Price,
		a.Bedrooms, a.Bathrooms, a.Closets, a.NoOfOccupants, a.Stove, a.Laundry,
		a.IsAvailable, a.Dishwasher, a.Microwave, a.Carpet, a.Refrigerator, a.AirCondition, a.Pets, a.Smoking,
		a.Status, a.CreatedAt, a.CreatedBy, a.ModifiedAt, a.ModifiedBy,
	)
	if err != nil {
		return writeError("apartment", "insert", err)
	}
	return nil
}

func (r *apartmentRepository) FindByNumber(ctx context.Context, number int) (*models.Apartment, error) {
	return r.find(ctx, number, "")
}

func (r *apartmentRepository) LockByNumber(ctx context.Context, number int) (*models.Apartment, error) {
	return r.find(ctx, number, "FOR UPDATE")
}

func (r *apartmentRepository) find(ctx context.Context, number int, lock string) (*models.Apartment, error) {
	query := `
		SELECT ` + apartmentColumns + `
		FROM apartments
		WHERE apartment_number = $1 AND audit_status <> 'deleted'
		` + lock

	a, err := scanApartment(r.db.QueryRow(ctx, query, number))
	if err != nil {
		return nil, notFoundOrError("apartment", number, err)
	}
	return a, nil
}

func (r *apartmentRepository) CountOnFloor(ctx context.Context, building string, floor int) (int, error) {
	query := `SELECT COUNT(*) FROM apartments WHERE building_number = $1 AND floor_number = $2`

	var count int
	if err := r.db.QueryRow(ctx, query, building, floor).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count apartments (building=%s, floor=%d): %w", building, floor, err)
	}
	return count, nil
}

func (r *apartmentRepository) SetAvailability(ctx context.Context, number int, available bool, actor int64, now time.Time) error {
	query := `
		UPDATE apartments
		SET is_available = $2, modified_at = $3, modified_by = COALESCE($4, modified_by)
		WHERE apartment_number = $1
	`
	tag, err := r.db.Exec(ctx, query, number, available, now, actorOrNil(actor))
	if err != nil {
		return writeError("apartment", "update", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update apartment %d: no rows affected", number)
	}
	return nil
}

func scanApartment(row rowScanner) (*models.Apartment, error) {
	var a models.Apartment
	err := row.Scan(
		&a.ApartmentNumber, &a.BuildingNumber, &a.FloorNumber, &a.Description, &a.Price,
		&a.Bedrooms, &a.Bathrooms, &a.Closets, &a.NoOfOccupants, &a.Stove, &a.Laundry,
		&a.IsAvailable, &a.Dishwasher, &a.Microwave, &a.Carpet, &a.Refrigerator, &a.AirCondition, &a.Pets, &a.Smoking,
		&a.Status, &a.CreatedAt, &a.CreatedBy, &a.ModifiedAt, &a.ModifiedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// actorOrNil maps the anonymous actor 0 to SQL NULL.
func actorOrNil(actor int64) *int64 {
	if actor == 0 {
		return nil
	}
	return &actor
}
