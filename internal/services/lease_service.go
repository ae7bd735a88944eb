package services

import (
	"context"

	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/logger"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/repository"
)

// LeaseDetails is a lease with its tenants.
type LeaseDetails struct {
	Lease   *models.Lease
	Tenants []models.Tenant
}

// LeaseService manages the lease lifecycle.
type LeaseService interface {
	Get(ctx context.Context, number int64) (*LeaseDetails, error)

	// Transition moves a lease to a new status. Reaching a terminal status
	// deactivates the tenants, frees the apartment and releases its parking.
	Transition(ctx context.Context, p domain.Principal, number int64, to models.LeaseStatus) (*models.Lease, error)

	// BreakLease ends a lease early with the same side effects as a
	// terminal transition.
	BreakLease(ctx context.Context, p domain.Principal, number int64, brk domain.LeaseBreak) (*models.Lease, error)
}

type leaseService struct {
	store repository.Store
	log   *logger.Logger
	opts  options
}

// NewLeaseService creates a new LeaseService.
func NewLeaseService(store repository.Store, log *logger.Logger, opts ...Option) LeaseService {
	return &leaseService{store: store, log: log, opts: newOptions(opts)}
}

func (s *leaseService) Get(ctx context.Context, number int64) (*LeaseDetails, error) {
	lease, err := s.store.Leases().FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, &domain.NotFoundError{Resource: "lease", Key: number}
	}

	tenants, err := s.store.Tenants().ListByLease(ctx, number)
	if err != nil {
		return nil, err
	}
	return &LeaseDetails{Lease: lease, Tenants: tenants}, nil
}

func (s *leaseService) Transition(ctx context.Context, p domain.Principal, number int64, to models.LeaseStatus) (*models.Lease, error) {
	if err := domain.RequireAdmin(p); err != nil {
		return nil, err
	}

	return s.mutate(ctx, p, number, func(lease *models.Lease) error {
		if err := domain.ValidateLeaseTransition(lease.LeaseStatus, to); err != nil {
			return err
		}
		lease.LeaseStatus = to
		return nil
	})
}

func (s *leaseService) BreakLease(ctx context.Context, p domain.Principal, number int64, brk domain.LeaseBreak) (*models.Lease, error) {
	if err := domain.RequireAdmin(p); err != nil {
		return nil, err
	}

	today := domain.Date(s.opts.now())
	return s.mutate(ctx, p, number, func(lease *models.Lease) error {
		return domain.ApplyLeaseBreak(lease, brk, today)
	})
}

// mutate applies change to the locked lease and persists it, closing the
// lease out when the new status is terminal.
func (s *leaseService) mutate(ctx context.Context, p domain.Principal, number int64, change func(*models.Lease) error) (*models.Lease, error) {
	now := s.opts.now()
	var updated *models.Lease

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		lease, err := tx.Leases().LockByNumber(ctx, number)
		if err != nil {
			return err
		}
		if lease == nil {
			return &domain.NotFoundError{Resource: "lease", Key: number}
		}

		from := lease.LeaseStatus
		if err := change(lease); err != nil {
			return err
		}
		lease.Touch(p.UserID, now)
		if err := tx.Leases().Update(ctx, lease); err != nil {
			return err
		}

		if !from.IsTerminal() && lease.LeaseStatus.IsTerminal() {
			if err := closeLease(ctx, tx, lease, p.UserID, now); err != nil {
				return err
			}
		}
		updated = lease
		return nil
	})
	if err != nil {
		s.log.Warn("Lease update rejected", map[string]interface{}{
			"agreement_number": number,
			"user_id":          p.UserID,
			"error":            err.Error(),
		})
		return nil, err
	}

	s.log.Info("Lease updated", map[string]interface{}{
		"agreement_number": updated.AgreementNumber,
		"lease_status":     updated.LeaseStatus,
		"lease_break":      updated.LeaseBreakFlag,
		"user_id":          p.UserID,
	})
	return updated, nil
}
