package domain

import (
	"time"

	"github.com/stwalsh4118/bma/api/internal/models"
)

// ValidateTenant checks a tenant against its parent lease and returns a copy
// of the tenant whose move-out date is the canonical derived value
// (move-in plus the lease duration). Callers persist the returned tenant.
//
// Re-validating the returned tenant with the same lease and day yields the
// same move-out date.
func ValidateTenant(t *models.Tenant, lease *models.Lease, today time.Time) (*models.Tenant, error) {
	if t == nil || lease == nil {
		return nil, NewValidationError(NonFieldErrors, "Tenant and lease are required.")
	}

	if !ValidDuration(lease.Duration) {
		return nil, NewValidationError("lease", "Invalid lease duration.")
	}

	today = Date(today)
	moveIn := Date(t.MoveInDate)
	moveOut := AddMonths(moveIn, lease.Duration)
	verr := &ValidationError{}

	if !moveOut.After(moveIn) {
		verr.Add("move_out_date", "Invalid lease dates.")
	}
	if moveOut.After(Date(lease.EndDate)) {
		verr.Add("move_out_date", "Lease end date exceeds the lease agreement end date.")
	}
	if moveOut.Before(Date(lease.StartDate)) {
		verr.Add("move_out_date", "Lease end date is before the lease agreement start date.")
	}
	if moveIn.Before(today) {
		verr.Add("move_in_date", "Tenant start date cannot be in the past.")
	}
	if moveOut.Before(today) {
		verr.Add("move_out_date", "Tenant end date cannot be in the past.")
	}

	if t.LeaseBreakDate != nil {
		brk := Date(*t.LeaseBreakDate)
		if brk.Before(moveIn) {
			verr.Add("lease_break_date", "Lease break date is before the lease start date.")
		}
		if brk.After(moveOut) {
			verr.Add("lease_break_date", "Lease break date cannot be greater than end date.")
		}
		if brk.Before(today) {
			verr.Add("lease_break_date", "Lease break date cannot be in the past.")
		}
	}

	if t.LeaseBreakFlag {
		if t.LeaseBreakFee == nil {
			verr.Add("lease_break_fee", "Lease break fee is required if lease is broken.")
		}
		if t.LeaseBreakDate == nil {
			verr.Add("lease_break_date", "Lease break date is required if lease is broken.")
		}
		if t.LeaseBreakReason == nil || *t.LeaseBreakReason == "" {
			verr.Add("lease_break_reason", "Lease break reason is required if lease is broken.")
		}
	}
	if t.LeaseBreakFee != nil && *t.LeaseBreakFee <= 0 {
		verr.Add("lease_break_fee", "Lease break fee must be greater than 0.")
	}
	if t.ApplicationFee < 0 {
		verr.Add("application_fee", "Ensure this value is greater than or equal to 0.")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	out := *t
	out.MoveInDate = moveIn
	out.MoveOutDate = moveOut
	if t.LeaseBreakDate != nil {
		brk := Date(*t.LeaseBreakDate)
		out.LeaseBreakDate = &brk
	}
	return &out, nil
}
