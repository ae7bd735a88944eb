package services

import (
	"context"
	"time"

	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/repository"
)

// closeLease runs the side effects of a lease reaching a terminal status:
// its tenants become inactive, their users lose the tenant flag, the
// apartment becomes bookable again and its parking spots are released.
func closeLease(ctx context.Context, tx repository.Store, lease *models.Lease, actor int64, now time.Time) error {
	users, err := tx.Tenants().DeactivateByLease(ctx, lease.AgreementNumber, actor, now)
	if err != nil {
		return err
	}
	for _, id := range users {
		if err := tx.Users().SetTenantFlag(ctx, id, false); err != nil {
			return err
		}
	}

	if err := tx.Apartments().SetAvailability(ctx, lease.ApartmentNumber, true, actor, now); err != nil {
		return err
	}
	_, err = tx.Parking().ReleaseByApartment(ctx, lease.ApartmentNumber, actor, now)
	return err
}
