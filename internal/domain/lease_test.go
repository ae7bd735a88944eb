package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/bma/api/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain", day(2030, 3, 15), 6, day(2030, 9, 15)},
		{"crosses year", day(2030, 9, 1), 6, day(2031, 3, 1)},
		{"clamps to february", day(2030, 8, 31), 6, day(2031, 2, 28)},
		{"clamps to leap day", day(2031, 8, 31), 6, day(2032, 2, 29)},
		{"twelve months", day(2030, 1, 10), 12, day(2031, 1, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2030-02-03")
	require.NoError(t, err)
	assert.Equal(t, day(2030, 2, 3), d)

	_, err = ParseDate("03/02/2030")
	assert.Error(t, err)
}

func TestValidateLeaseTransition(t *testing.T) {
	allowed := map[models.LeaseStatus][]models.LeaseStatus{
		models.LeaseNotStarted: {models.LeaseStarted, models.LeaseTerminated},
		models.LeaseStarted:    {models.LeaseCompleted, models.LeaseTransferred, models.LeaseTerminated},
	}
	all := []models.LeaseStatus{
		models.LeaseNotStarted, models.LeaseStarted, models.LeaseCompleted,
		models.LeaseTransferred, models.LeaseTerminated,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			err := ValidateLeaseTransition(from, to)
			if want {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.Error(t, err, "%s -> %s", from, to)
			}
		}
	}
}

func validDraft(today time.Time) LeaseDraft {
	return LeaseDraft{
		StartDate:       today,
		PaymentSchedule: models.PaymentMonthly,
		RentAmount:      1500,
		SecurityDeposit: 500,
		ApartmentNumber: 204,
		Duration:        12,
	}
}

func availableApartment() *models.Apartment {
	return &models.Apartment{
		AuditInfo:       models.AuditInfo{Status: models.AuditActive},
		ApartmentNumber: 204,
		Price:           1500,
		IsAvailable:     true,
	}
}

func TestValidateLeaseDraft_Valid(t *testing.T) {
	today := day(2030, 1, 10)
	assert.NoError(t, ValidateLeaseDraft(validDraft(today), availableApartment(), today))
}

func TestValidateLeaseDraft_Violations(t *testing.T) {
	today := day(2030, 1, 10)

	tests := []struct {
		name   string
		mutate func(d *LeaseDraft, apt *models.Apartment)
		field  string
	}{
		{"apartment unavailable", func(d *LeaseDraft, apt *models.Apartment) { apt.IsAvailable = false }, "apartment_number"},
		{"rent does not match price", func(d *LeaseDraft, apt *models.Apartment) { d.RentAmount = 1400 }, "rent_amount"},
		{"invalid duration", func(d *LeaseDraft, apt *models.Apartment) { d.Duration = 7 }, "duration"},
		{"start in the past", func(d *LeaseDraft, apt *models.Apartment) { d.StartDate = day(2030, 1, 9) }, "start_date"},
		{"end before start", func(d *LeaseDraft, apt *models.Apartment) {
			end := day(2030, 1, 10)
			d.EndDate = &end
		}, "end_date"},
		{"bad payment schedule", func(d *LeaseDraft, apt *models.Apartment) { d.PaymentSchedule = "daily" }, "payment_schedule"},
		{"negative deposit", func(d *LeaseDraft, apt *models.Apartment) { d.SecurityDeposit = -1 }, "security_deposit"},
		{"unknown fee key", func(d *LeaseDraft, apt *models.Apartment) {
			d.Fees = DefaultFees()
			d.Fees["pool_fee"] = 5
		}, "fees"},
		{"missing discount key", func(d *LeaseDraft, apt *models.Apartment) {
			d.Discounts = DefaultDiscounts()
			delete(d.Discounts, "military_discount")
		}, "discounts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft(today)
			apt := availableApartment()
			tt.mutate(&d, apt)

			err := ValidateLeaseDraft(d, apt, today)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestValidateLeaseDraft_MissingApartment(t *testing.T) {
	today := day(2030, 1, 10)

	err := ValidateLeaseDraft(validDraft(today), nil, today)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "apartment_number")
}

func TestValidateTenantEntries(t *testing.T) {
	fee := 50.0
	negative := -1.0

	assert.NoError(t, ValidateTenantEntries([]TenantEntry{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", ApplicationFee: &fee},
	}))

	tests := []struct {
		name    string
		entries []TenantEntry
	}{
		{"empty list", nil},
		{"missing fee", []TenantEntry{{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}}},
		{"missing email", []TenantEntry{{FirstName: "Ada", LastName: "Lovelace", ApplicationFee: &fee}}},
		{"negative fee", []TenantEntry{{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", ApplicationFee: &negative}}},
		{"duplicate email", []TenantEntry{
			{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", ApplicationFee: &fee},
			{FirstName: "Ada", LastName: "L", Email: " ADA@example.com", ApplicationFee: &fee},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTenantEntries(tt.entries)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, "tenants_list")
		})
	}
}

func TestNewLease_DerivesEndDate(t *testing.T) {
	now := time.Date(2030, 1, 10, 15, 30, 0, 0, time.UTC)
	d := validDraft(day(2030, 1, 31))
	d.Duration = 6

	lease := NewLease(d, 7, now)

	assert.Equal(t, day(2030, 1, 31), lease.StartDate)
	assert.Equal(t, day(2030, 7, 31), lease.EndDate)
	assert.Equal(t, models.LeaseNotStarted, lease.LeaseStatus)
	assert.Equal(t, models.AuditActive, lease.Status)
	require.NotNil(t, lease.CreatedBy)
	assert.Equal(t, int64(7), *lease.CreatedBy)
	assert.Equal(t, DefaultFees(), lease.Fees)
	assert.Equal(t, DefaultDiscounts(), lease.Discounts)
}

func TestNewLease_KeepsExplicitEndDate(t *testing.T) {
	end := day(2030, 12, 1)
	d := validDraft(day(2030, 1, 10))
	d.EndDate = &end

	lease := NewLease(d, 0, time.Now())

	assert.Equal(t, end, lease.EndDate)
	assert.Nil(t, lease.CreatedBy)
}

func TestApplyLeaseBreak(t *testing.T) {
	today := day(2030, 3, 1)
	newLease := func(status models.LeaseStatus) *models.Lease {
		return &models.Lease{
			StartDate:   day(2030, 2, 1),
			EndDate:     day(2031, 2, 1),
			LeaseStatus: status,
		}
	}

	t.Run("started lease is terminated", func(t *testing.T) {
		lease := newLease(models.LeaseStarted)

		err := ApplyLeaseBreak(lease, LeaseBreak{Date: day(2030, 4, 1), Reason: " relocation "}, today)

		require.NoError(t, err)
		assert.True(t, lease.LeaseBreakFlag)
		assert.Equal(t, models.LeaseTerminated, lease.LeaseStatus)
		require.NotNil(t, lease.LeaseBreakReason)
		assert.Equal(t, "relocation", *lease.LeaseBreakReason)
		assert.Equal(t, day(2030, 4, 1), *lease.LeaseBreakDate)
	})

	t.Run("started lease is transferred", func(t *testing.T) {
		lease := newLease(models.LeaseStarted)

		err := ApplyLeaseBreak(lease, LeaseBreak{Date: today, Reason: "transfer", Status: models.LeaseTransferred}, today)

		require.NoError(t, err)
		assert.Equal(t, models.LeaseTransferred, lease.LeaseStatus)
	})

	t.Run("not started lease cannot be transferred", func(t *testing.T) {
		lease := newLease(models.LeaseNotStarted)

		err := ApplyLeaseBreak(lease, LeaseBreak{Date: today, Reason: "x", Status: models.LeaseTransferred}, today)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "lease_status")
		assert.False(t, lease.LeaseBreakFlag)
	})

	t.Run("completed lease cannot be broken", func(t *testing.T) {
		err := ApplyLeaseBreak(newLease(models.LeaseCompleted), LeaseBreak{Date: today, Reason: "x"}, today)
		assert.Error(t, err)
	})

	t.Run("date outside lease", func(t *testing.T) {
		err := ApplyLeaseBreak(newLease(models.LeaseStarted), LeaseBreak{Date: day(2031, 3, 1), Reason: "x"}, today)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "lease_break_date")
	})

	t.Run("date in the past", func(t *testing.T) {
		err := ApplyLeaseBreak(newLease(models.LeaseStarted), LeaseBreak{Date: day(2030, 2, 15), Reason: "x"}, today)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "lease_break_date")
	})

	t.Run("reason required", func(t *testing.T) {
		err := ApplyLeaseBreak(newLease(models.LeaseStarted), LeaseBreak{Date: today}, today)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "lease_break_reason")
	})
}
