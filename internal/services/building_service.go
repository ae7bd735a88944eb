package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/logger"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/repository"
)

var (
	buildingNumberPattern = regexp.MustCompile(`^[1-9][0-9]+$`)
	zipCodePattern        = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
)

// BuildingService manages buildings.
type BuildingService interface {
	Create(ctx context.Context, p domain.Principal, b models.Building) (*models.Building, error)
	Get(ctx context.Context, number string) (*models.Building, error)
}

type buildingService struct {
	store repository.Store
	log   *logger.Logger
	opts  options
}

// NewBuildingService creates a new BuildingService.
func NewBuildingService(store repository.Store, log *logger.Logger, opts ...Option) BuildingService {
	return &buildingService{store: store, log: log, opts: newOptions(opts)}
}

func (s *buildingService) Create(ctx context.Context, p domain.Principal, b models.Building) (*models.Building, error) {
	if err := domain.RequireAdmin(p); err != nil {
		return nil, err
	}
	if err := validateBuilding(&b); err != nil {
		return nil, err
	}

	b.AuditInfo = models.NewAuditInfo(p.UserID, s.opts.now())
	if err := s.store.Buildings().Create(ctx, &b); err != nil {
		return nil, err
	}

	s.log.Info("Building created", map[string]interface{}{
		"building_number": b.BuildingNumber,
		"floors":          b.NoOfFloors,
		"user_id":         p.UserID,
	})
	return &b, nil
}

func (s *buildingService) Get(ctx context.Context, number string) (*models.Building, error) {
	b, err := s.store.Buildings().FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &domain.NotFoundError{Resource: "building", Key: number}
	}
	return b, nil
}

func validateBuilding(b *models.Building) error {
	verr := &domain.ValidationError{}

	b.BuildingNumber = strings.TrimSpace(b.BuildingNumber)
	if !buildingNumberPattern.MatchString(b.BuildingNumber) {
		verr.Add("building_number", "Building number must be a positive integer of at least two digits.")
	}
	if !zipCodePattern.MatchString(b.ZipCode) {
		verr.Add("zip_code", "Enter a valid zip code.")
	}
	if b.NoOfFloors < 1 {
		verr.Add("no_of_floors", "Ensure this value is greater than or equal to 1.")
	}
	if b.IsConstructed && b.ConstructedOn == nil {
		verr.Add("constructed_on", "Construction date is required for a constructed building.")
	}
	return verr.OrNil()
}
