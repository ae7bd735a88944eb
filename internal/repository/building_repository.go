package repository

import (
	"context"

	"github.com/stwalsh4118/bma/api/internal/database"
	"github.com/stwalsh4118/bma/api/internal/models"
)

// BuildingRepository defines data access for buildings.
type BuildingRepository interface {
	Create(ctx context.Context, b *models.Building) error

	// FindByNumber returns nil, nil when the building does not exist or is
	// soft-deleted.
	FindByNumber(ctx context.Context, number string) (*models.Building, error)

	// LockByNumber is FindByNumber with a row lock held until the end of
	// the surrounding transaction.
	LockByNumber(ctx context.Context, number string) (*models.Building, error)
}

type buildingRepository struct {
	db database.DBTX
}

// NewBuildingRepository creates a BuildingRepository on db.
func NewBuildingRepository(db database.DBTX) BuildingRepository {
	return &buildingRepository{db: db}
}

const buildingColumns = `
	building_number, street_name, city, state, country, zip_code,
	no_of_floors, is_constructed, constructed_on,
	audit_status, created_at, created_by, modified_at, modified_by`

func (r *buildingRepository) Create(ctx context.Context, b *models.Building) error {
	query := `
		INSERT INTO buildings (` + buildingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		b.BuildingNumber, b.StreetName, b.City, b.State, b.Country, b.ZipCode,
		b.NoOfFloors, b.IsConstructed, b.ConstructedOn,
		b.Status, b.CreatedAt, b.CreatedBy, b.ModifiedAt, b.ModifiedBy,
	)
	if err != nil {
		return writeError("building", "insert", err)
	}
	return nil
}

func (r *buildingRepository) FindByNumber(ctx context.Context, number string) (*models.Building, error) {
	return r.find(ctx, number, "")
}

func (r *buildingRepository) LockByNumber(ctx context.Context, number string) (*models.Building, error) {
	return r.find(ctx, number, "FOR UPDATE")
}

func (r *buildingRepository) find(ctx context.Context, number, lock string) (*models.Building, error) {
	query := `
		SELECT ` + buildingColumns + `
		FROM buildings
		WHERE building_number = $1 AND audit_status <> 'deleted'
		` + lock

	b, err := scanBuilding(r.db.QueryRow(ctx, query, number))
	if err != nil {
		return nil, notFoundOrError("building", number, err)
	}
	return b, nil
}

func scanBuilding(row rowScanner) (*models.Building, error) {
	var b models.Building
	err := row.Scan(
		&b.BuildingNumber, &b.StreetName, &b.City, &b.State, &b.Country, &b.ZipCode,
		&b.NoOfFloors, &b.IsConstructed, &b.ConstructedOn,
		&b.Status, &b.CreatedAt, &b.CreatedBy, &b.ModifiedAt, &b.ModifiedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
