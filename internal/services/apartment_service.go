package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/logger"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/repository"
)

// ApartmentService manages apartments.
type ApartmentService interface {
	// CreateApartments creates one or more apartments in a single
	// transaction, numbering them per (building, floor). Numbers supplied
	// by the caller are ignored.
	CreateApartments(ctx context.Context, p domain.Principal, drafts []models.Apartment) ([]models.Apartment, error)
	Get(ctx context.Context, number int) (*models.Apartment, error)
}

type apartmentService struct {
	store repository.Store
	log   *logger.Logger
	opts  options
}

// NewApartmentService creates a new ApartmentService.
func NewApartmentService(store repository.Store, log *logger.Logger, opts ...Option) ApartmentService {
	return &apartmentService{store: store, log: log, opts: newOptions(opts)}
}

func (s *apartmentService) CreateApartments(ctx context.Context, p domain.Principal, drafts []models.Apartment) ([]models.Apartment, error) {
	if err := domain.RequireAdmin(p); err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, domain.NewValidationError(domain.NonFieldErrors, "At least one apartment is required.")
	}
	if err := validateApartments(drafts); err != nil {
		return nil, err
	}

	now := s.opts.now()
	created := make([]models.Apartment, 0, len(drafts))

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		buildings, err := lockBuildings(ctx, tx, drafts)
		if err != nil {
			return err
		}

		alloc := domain.NewNumberAllocator()
		for i := range drafts {
			apt := drafts[i]
			b := buildings[apt.BuildingNumber]
			if apt.FloorNumber > b.NoOfFloors {
				return domain.NewValidationError(apartmentField(i, len(drafts), "floor_number"),
					fmt.Sprintf("Building `%s` has only %d floors.", b.BuildingNumber, b.NoOfFloors))
			}

			if !alloc.Seeded(apt.BuildingNumber, apt.FloorNumber) {
				existing, err := tx.Apartments().CountOnFloor(ctx, apt.BuildingNumber, apt.FloorNumber)
				if err != nil {
					return err
				}
				alloc.Seed(apt.BuildingNumber, apt.FloorNumber, existing)
			}

			apt.ApartmentNumber = alloc.Next(apt.BuildingNumber, apt.FloorNumber)
			apt.IsAvailable = true
			apt.AuditInfo = models.NewAuditInfo(p.UserID, now)

			if err := tx.Apartments().Create(ctx, &apt); err != nil {
				return err
			}
			created = append(created, apt)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Apartment creation rejected", map[string]interface{}{
			"count": len(drafts),
			"error": err.Error(),
		})
		return nil, err
	}

	numbers := make([]int, len(created))
	for i, a := range created {
		numbers[i] = a.ApartmentNumber
	}
	s.log.Info("Apartments created", map[string]interface{}{
		"apartment_numbers": numbers,
		"user_id":           p.UserID,
	})
	return created, nil
}

func (s *apartmentService) Get(ctx context.Context, number int) (*models.Apartment, error) {
	apt, err := s.store.Apartments().FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if apt == nil {
		return nil, &domain.NotFoundError{Resource: "apartment", Key: number}
	}
	return apt, nil
}

// lockBuildings locks every referenced building in sorted order so
// concurrent batches touching the same buildings cannot deadlock.
func lockBuildings(ctx context.Context, tx repository.Store, drafts []models.Apartment) (map[string]*models.Building, error) {
	var numbers []string
	seen := make(map[string]bool)
	for _, d := range drafts {
		if !seen[d.BuildingNumber] {
			seen[d.BuildingNumber] = true
			numbers = append(numbers, d.BuildingNumber)
		}
	}
	sort.Strings(numbers)

	buildings := make(map[string]*models.Building, len(numbers))
	for _, n := range numbers {
		b, err := tx.Buildings().LockByNumber(ctx, n)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, domain.NewValidationError("building_number", fmt.Sprintf("Building `%s` does not exist.", n))
		}
		buildings[n] = b
	}
	return buildings, nil
}

func validateApartments(drafts []models.Apartment) error {
	verr := &domain.ValidationError{}
	for i, a := range drafts {
		field := func(name string) string { return apartmentField(i, len(drafts), name) }

		if a.BuildingNumber == "" {
			verr.Add(field("building_number"), "This field is required.")
		}
		if a.FloorNumber < 1 {
			verr.Add(field("floor_number"), "Ensure this value is greater than or equal to 1.")
		}
		if a.Price < 1 {
			verr.Add(field("price"), "Ensure this value is greater than or equal to 1.")
		}
		if a.Bedrooms < 0 || a.Bathrooms < 0 || a.Closets < 0 || a.NoOfOccupants < 0 {
			verr.Add(field(domain.NonFieldErrors), "Room and occupant counts cannot be negative.")
		}
		switch a.Stove {
		case models.StoveElectric, models.StoveGas:
		default:
			verr.Add(field("stove"), fmt.Sprintf("`%s` is not a valid choice.", a.Stove))
		}
		switch a.Laundry {
		case models.LaundryInUnit, models.LaundryFloor, models.LaundryBuilding, models.LaundryNotAvailable:
		default:
			verr.Add(field("laundry"), fmt.Sprintf("`%s` is not a valid choice.", a.Laundry))
		}
	}
	return verr.OrNil()
}

// apartmentField prefixes the field with the item index for batch requests.
func apartmentField(i, n int, name string) string {
	if n == 1 {
		return name
	}
	return fmt.Sprintf("%d.%s", i, name)
}
