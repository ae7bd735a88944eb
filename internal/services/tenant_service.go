package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/logger"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/repository"
)

// TenantUpdate is a partial update of a tenant. Nil fields are left as is.
type TenantUpdate struct {
	MoveInDate       *time.Time
	LeaseBreakDate   *time.Time
	LeaseBreakFlag   *bool
	LeaseBreakFee    *float64
	LeaseBreakReason *string
	ApplicationFee   *float64
	Notes            *string
}

// TenantService manages tenants of existing leases.
type TenantService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error)

	// Update re-validates the tenant against its lease. The move-out date is
	// always re-derived from the move-in date and the lease duration.
	Update(ctx context.Context, p domain.Principal, id uuid.UUID, upd TenantUpdate) (*models.Tenant, error)
}

type tenantService struct {
	store repository.Store
	log   *logger.Logger
	opts  options
}

// NewTenantService creates a new TenantService.
func NewTenantService(store repository.Store, log *logger.Logger, opts ...Option) TenantService {
	return &tenantService{store: store, log: log, opts: newOptions(opts)}
}

func (s *tenantService) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t, err := s.store.Tenants().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &domain.NotFoundError{Resource: "tenant", Key: id}
	}
	return t, nil
}

func (s *tenantService) Update(ctx context.Context, p domain.Principal, id uuid.UUID, upd TenantUpdate) (*models.Tenant, error) {
	if err := domain.RequireAdmin(p); err != nil {
		return nil, err
	}

	now := s.opts.now()
	var updated *models.Tenant

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		t, err := tx.Tenants().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return &domain.NotFoundError{Resource: "tenant", Key: id}
		}
		lease, err := tx.Leases().LockByNumber(ctx, t.LeaseID)
		if err != nil {
			return err
		}
		if lease == nil {
			return &domain.NotFoundError{Resource: "lease", Key: t.LeaseID}
		}

		upd.apply(t)
		validated, err := domain.ValidateTenant(t, lease, now)
		if err != nil {
			return err
		}
		validated.Touch(p.UserID, now)
		if err := tx.Tenants().Update(ctx, validated); err != nil {
			return err
		}
		updated = validated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Tenant updated", map[string]interface{}{
		"tenant_id":     updated.TenantID.String(),
		"lease_id":      updated.LeaseID,
		"move_out_date": updated.MoveOutDate.Format(domain.DateLayout),
		"user_id":       p.UserID,
	})
	return updated, nil
}

func (u TenantUpdate) apply(t *models.Tenant) {
	if u.MoveInDate != nil {
		t.MoveInDate = *u.MoveInDate
	}
	if u.ApplicationFee != nil {
		t.ApplicationFee = *u.ApplicationFee
	}
	if u.Notes != nil {
		t.Notes = u.Notes
	}
	if u.LeaseBreakFlag != nil {
		t.LeaseBreakFlag = *u.LeaseBreakFlag
	}
	if u.LeaseBreakDate != nil {
		t.LeaseBreakDate = u.LeaseBreakDate
	}
	if u.LeaseBreakFee != nil {
		t.LeaseBreakFee = u.LeaseBreakFee
	}
	if u.LeaseBreakReason != nil {
		reason := strings.TrimSpace(*u.LeaseBreakReason)
		t.LeaseBreakReason = &reason
	}
}
