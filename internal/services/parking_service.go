package services

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/logger"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/repository"
)

// ParkingCreate describes a new parking spot.
type ParkingCreate struct {
	ApartmentNumber *int
	ParkingFee      map[string]float64
	BuildingNumber  string
	ParkingType     models.ParkingType
	// Status defaults to available.
	Status models.ParkingStatus
}

// ParkingUpdate reserves or occupies a spot for a lease.
type ParkingUpdate struct {
	ApartmentNumber      *int
	LeaseAgreementNumber *int64
	ParkingType          *models.ParkingType
	ParkingFee           map[string]float64
	Status               models.ParkingStatus
	ClearApartment       bool
}

// ParkingService manages parking spots.
type ParkingService interface {
	Create(ctx context.Context, p domain.Principal, req ParkingCreate) (*models.ParkingSpot, error)
	Update(ctx context.Context, p domain.Principal, number int, req ParkingUpdate) (*models.ParkingSpot, error)
	Get(ctx context.Context, number int) (*models.ParkingSpot, error)
}

type parkingService struct {
	store repository.Store
	log   *logger.Logger
	opts  options
}

// NewParkingService creates a new ParkingService.
func NewParkingService(store repository.Store, log *logger.Logger, opts ...Option) ParkingService {
	return &parkingService{store: store, log: log, opts: newOptions(opts)}
}

func (s *parkingService) Get(ctx context.Context, number int) (*models.ParkingSpot, error) {
	spot, err := s.store.Parking().FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if spot == nil {
		return nil, &domain.NotFoundError{Resource: "parking spot", Key: number}
	}
	return spot, nil
}

func (s *parkingService) Create(ctx context.Context, p domain.Principal, req ParkingCreate) (*models.ParkingSpot, error) {
	if err := domain.RequireAdmin(p); err != nil {
		return nil, err
	}
	if req.Status == "" {
		req.Status = models.ParkingAvailable
	}
	if err := validateParkingType(req.ParkingType); err != nil {
		return nil, err
	}

	now := s.opts.now()
	var spot *models.ParkingSpot

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		// The building row lock serializes concurrent creates against the
		// capacity count.
		building, err := tx.Buildings().LockByNumber(ctx, req.BuildingNumber)
		if err != nil {
			return err
		}
		if building == nil {
			return &domain.NotFoundError{Resource: "building", Key: req.BuildingNumber}
		}
		count, err := tx.Parking().CountByBuilding(ctx, building.BuildingNumber)
		if err != nil {
			return err
		}

		change := domain.ParkingChange{
			ParkingFee:      req.ParkingFee,
			ApartmentNumber: req.ApartmentNumber,
			Status:          req.Status,
		}
		snap := domain.ParkingSnapshot{Building: building, BuildingSpots: count}
		if err := domain.ValidateParkingTransition(p, domain.OperationCreate, change, snap); err != nil {
			return err
		}

		fee := req.ParkingFee
		if fee == nil {
			fee = domain.DefaultParkingFees()
		}
		spot = &models.ParkingSpot{
			AuditInfo:      models.NewAuditInfo(p.UserID, now),
			BuildingNumber: building.BuildingNumber,
			ParkingType:    req.ParkingType,
			ParkingStatus:  req.Status,
			ParkingFee:     fee,
		}
		return tx.Parking().Create(ctx, spot)
	})
	if err != nil {
		s.log.Warn("Parking spot creation rejected", map[string]interface{}{
			"building_number": req.BuildingNumber,
			"user_id":         p.UserID,
			"error":           err.Error(),
		})
		return nil, err
	}

	s.log.Info("Parking spot created", map[string]interface{}{
		"parking_number":  spot.ParkingNumber,
		"building_number": spot.BuildingNumber,
		"user_id":         p.UserID,
	})
	return spot, nil
}

func (s *parkingService) Update(ctx context.Context, p domain.Principal, number int, req ParkingUpdate) (*models.ParkingSpot, error) {
	if err := domain.RequireActive(p); err != nil {
		return nil, err
	}
	if req.ParkingType != nil {
		if err := validateParkingType(*req.ParkingType); err != nil {
			return nil, err
		}
	}

	now := s.opts.now()
	var spot *models.ParkingSpot

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		spot, err = tx.Parking().LockByNumber(ctx, number)
		if err != nil {
			return err
		}
		if spot == nil {
			return &domain.NotFoundError{Resource: "parking spot", Key: number}
		}

		snap := domain.ParkingSnapshot{Spot: spot}
		if req.LeaseAgreementNumber != nil && *req.LeaseAgreementNumber != 0 {
			// Locking the lease serializes reservations for the same
			// apartment against its spot count.
			snap.Lease, err = tx.Leases().LockByNumber(ctx, *req.LeaseAgreementNumber)
			if err != nil {
				return err
			}
			if snap.Lease != nil {
				snap.Apartment, err = tx.Apartments().FindByNumber(ctx, snap.Lease.ApartmentNumber)
				if err != nil {
					return err
				}
				snap.ApartmentActiveSpots, err = tx.Parking().CountInUseByApartment(ctx, snap.Lease.ApartmentNumber)
				if err != nil {
					return err
				}
			}
		}

		change := domain.ParkingChange{
			ParkingFee:           req.ParkingFee,
			ApartmentNumber:      req.ApartmentNumber,
			LeaseAgreementNumber: req.LeaseAgreementNumber,
			Status:               req.Status,
			ClearApartment:       req.ClearApartment,
		}
		if err := domain.ValidateParkingTransition(p, domain.OperationUpdate, change, snap); err != nil {
			return err
		}

		apartment := snap.Lease.ApartmentNumber
		agreement := snap.Lease.AgreementNumber
		spot.ApartmentNumber = &apartment
		spot.LeaseAgreementNumber = &agreement
		spot.ParkingStatus = req.Status
		if req.ParkingFee != nil {
			spot.ParkingFee = req.ParkingFee
		}
		if req.ParkingType != nil {
			spot.ParkingType = *req.ParkingType
		}
		spot.Touch(p.UserID, now)
		return tx.Parking().Update(ctx, spot)
	})
	if err != nil {
		s.log.Warn("Parking spot update rejected", map[string]interface{}{
			"parking_number": number,
			"user_id":        p.UserID,
			"error":          err.Error(),
		})
		return nil, err
	}

	s.log.Info("Parking spot reserved", map[string]interface{}{
		"parking_number":   spot.ParkingNumber,
		"apartment_number": *spot.ApartmentNumber,
		"parking_status":   spot.ParkingStatus,
		"user_id":          p.UserID,
	})
	return spot, nil
}

func validateParkingType(t models.ParkingType) error {
	switch t {
	case models.ParkingCovered, models.ParkingUncovered, models.ParkingGarage:
		return nil
	default:
		return domain.NewValidationError("parking_type", fmt.Sprintf("`%s` is not a valid choice.", t))
	}
}
