package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/locking"
	"github.com/stwalsh4118/bma/api/internal/logger"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/repository"
)

// BookingRequest is a lease draft plus the people who will live under it.
type BookingRequest struct {
	Tenants []domain.TenantEntry
	Lease   domain.LeaseDraft
}

// BookingResult is the persisted outcome of a booking.
type BookingResult struct {
	Lease   *models.Lease
	Tenants []models.Tenant
}

// BookingService books apartments.
type BookingService interface {
	// BookApartment creates a lease and its tenants and marks the apartment
	// unavailable, all or nothing.
	BookApartment(ctx context.Context, p domain.Principal, req BookingRequest) (*BookingResult, error)
}

type bookingService struct {
	store  repository.Store
	locker locking.Locker
	log    *logger.Logger
	opts   options
}

// NewBookingService creates a new BookingService.
func NewBookingService(store repository.Store, locker locking.Locker, log *logger.Logger, opts ...Option) BookingService {
	if locker == nil {
		locker = locking.NewNoopLocker()
	}
	return &bookingService{store: store, locker: locker, log: log, opts: newOptions(opts)}
}

type resolvedTenant struct {
	user  *models.User
	entry domain.TenantEntry
}

func (s *bookingService) BookApartment(ctx context.Context, p domain.Principal, req BookingRequest) (*BookingResult, error) {
	if err := domain.RequireActive(p); err != nil {
		return nil, err
	}

	now := s.opts.now()
	today := domain.Date(now)

	// Fail fast on everything that can be checked without locks. The same
	// rules run again under the apartment row lock.
	apt, err := s.store.Apartments().FindByNumber(ctx, req.Lease.ApartmentNumber)
	if err != nil {
		return nil, err
	}
	if err := mergeValidation(
		domain.ValidateLeaseDraft(req.Lease, apt, today),
		domain.ValidateTenantEntries(req.Tenants),
	); err != nil {
		return nil, err
	}

	if _, err := s.resolveTenants(ctx, s.store, req.Tenants); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, locking.ApartmentKey(req.Lease.ApartmentNumber))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("Failed to release booking lock", map[string]interface{}{
				"apartment_number": req.Lease.ApartmentNumber,
				"error":            err.Error(),
			})
		}
	}()

	result := &BookingResult{}
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		apt, err := tx.Apartments().LockByNumber(ctx, req.Lease.ApartmentNumber)
		if err != nil {
			return err
		}
		if err := domain.ValidateLeaseDraft(req.Lease, apt, today); err != nil {
			return err
		}

		open, err := tx.Leases().HasOpenLease(ctx, apt.ApartmentNumber)
		if err != nil {
			return err
		}
		if open {
			return &domain.ConflictError{
				Resource: "apartment",
				Message:  fmt.Sprintf("apartment %d already has an open lease", apt.ApartmentNumber),
			}
		}

		// A tenant may have been booked elsewhere since the first check, so
		// the rows are built from this read.
		tenants, err := s.resolveTenants(ctx, tx, req.Tenants)
		if err != nil {
			return err
		}

		lease := domain.NewLease(req.Lease, p.UserID, now)
		if err := tx.Leases().Create(ctx, lease); err != nil {
			return err
		}

		for _, rt := range tenants {
			t := &models.Tenant{
				AuditInfo:      models.NewAuditInfo(p.UserID, now),
				TenantID:       uuid.New(),
				LeaseID:        lease.AgreementNumber,
				UserID:         rt.user.ID,
				MoveInDate:     lease.StartDate,
				MoveOutDate:    lease.EndDate,
				ApplicationFee: *rt.entry.ApplicationFee,
				IsActive:       true,
			}
			validated, err := domain.ValidateTenant(t, lease, today)
			if err != nil {
				return err
			}
			if err := tx.Tenants().Create(ctx, validated); err != nil {
				return err
			}
			if err := tx.Users().SetTenantFlag(ctx, rt.user.ID, true); err != nil {
				return err
			}
			result.Tenants = append(result.Tenants, *validated)
		}

		if err := tx.Apartments().SetAvailability(ctx, apt.ApartmentNumber, false, p.UserID, now); err != nil {
			return err
		}
		result.Lease = lease
		return nil
	})
	if err != nil {
		s.log.Warn("Booking rejected", map[string]interface{}{
			"apartment_number": req.Lease.ApartmentNumber,
			"user_id":          p.UserID,
			"error":            err.Error(),
		})
		return nil, err
	}

	s.log.Info("Apartment booked", map[string]interface{}{
		"apartment_number": req.Lease.ApartmentNumber,
		"agreement_number": result.Lease.AgreementNumber,
		"tenants":          len(result.Tenants),
		"user_id":          p.UserID,
	})
	return result, nil
}

// resolveTenants maps every entry to an active user that is not already an
// active tenant.
func (s *bookingService) resolveTenants(ctx context.Context, store repository.Store, entries []domain.TenantEntry) ([]resolvedTenant, error) {
	verr := &domain.ValidationError{}
	resolved := make([]resolvedTenant, 0, len(entries))

	for _, e := range entries {
		email := domain.NormalizeEmail(e.Email)
		user, err := store.Users().FindActiveByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			verr.Add("tenants_list", fmt.Sprintf("User with email %s does not exist or is not active.", e.Email))
			continue
		}

		active, err := store.Tenants().ActiveForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if active {
			verr.Add("tenants_list", fmt.Sprintf("User with email %s is already an active tenant.", e.Email))
			continue
		}
		resolved = append(resolved, resolvedTenant{user: user, entry: e})
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return resolved, nil
}
