package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/bma/api/internal/models"
)

func twelveMonthLease() *models.Lease {
	return &models.Lease{
		StartDate: day(2030, 1, 10),
		EndDate:   day(2031, 1, 10),
		Duration:  12,
	}
}

func TestValidateTenant_DerivesMoveOut(t *testing.T) {
	today := day(2030, 1, 10)
	tenant := &models.Tenant{
		MoveInDate:  day(2030, 1, 10),
		MoveOutDate: day(2030, 6, 1),
	}

	got, err := ValidateTenant(tenant, twelveMonthLease(), today)

	require.NoError(t, err)
	assert.Equal(t, day(2031, 1, 10), got.MoveOutDate)
	// The input is not mutated.
	assert.Equal(t, day(2030, 6, 1), tenant.MoveOutDate)
}

func TestValidateTenant_IsStable(t *testing.T) {
	today := day(2030, 1, 10)
	lease := twelveMonthLease()

	first, err := ValidateTenant(&models.Tenant{MoveInDate: day(2030, 1, 10)}, lease, today)
	require.NoError(t, err)

	second, err := ValidateTenant(first, lease, today)
	require.NoError(t, err)

	assert.Equal(t, first.MoveOutDate, second.MoveOutDate)
}

func TestValidateTenant_MoveOutExceedsLease(t *testing.T) {
	today := day(2030, 1, 10)
	tenant := &models.Tenant{MoveInDate: day(2030, 2, 1)}

	_, err := ValidateTenant(tenant, twelveMonthLease(), today)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "move_out_date")
}

func TestValidateTenant_InvalidDuration(t *testing.T) {
	lease := twelveMonthLease()
	lease.Duration = 3

	_, err := ValidateTenant(&models.Tenant{MoveInDate: day(2030, 1, 10)}, lease, day(2030, 1, 10))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "lease")
}

func TestValidateTenant_MoveInInThePast(t *testing.T) {
	lease := &models.Lease{StartDate: day(2030, 1, 1), EndDate: day(2031, 1, 1), Duration: 6}

	_, err := ValidateTenant(&models.Tenant{MoveInDate: day(2030, 1, 5)}, lease, day(2030, 1, 10))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "move_in_date")
}

func TestValidateTenant_LeaseBreak(t *testing.T) {
	today := day(2030, 1, 10)
	fee := 300.0
	zero := 0.0
	reason := "job transfer"
	inside := day(2030, 6, 1)
	outside := day(2031, 2, 1)
	past := day(2030, 1, 5)

	tests := []struct {
		name    string
		tenant  models.Tenant
		wantErr string
	}{
		{
			name: "complete break",
			tenant: models.Tenant{
				LeaseBreakFlag: true, LeaseBreakDate: &inside, LeaseBreakFee: &fee, LeaseBreakReason: &reason,
			},
		},
		{
			name:    "flag without fee",
			tenant:  models.Tenant{LeaseBreakFlag: true, LeaseBreakDate: &inside, LeaseBreakReason: &reason},
			wantErr: "lease_break_fee",
		},
		{
			name:    "flag without date",
			tenant:  models.Tenant{LeaseBreakFlag: true, LeaseBreakFee: &fee, LeaseBreakReason: &reason},
			wantErr: "lease_break_date",
		},
		{
			name:    "flag without reason",
			tenant:  models.Tenant{LeaseBreakFlag: true, LeaseBreakDate: &inside, LeaseBreakFee: &fee},
			wantErr: "lease_break_reason",
		},
		{
			name: "zero fee",
			tenant: models.Tenant{
				LeaseBreakFlag: true, LeaseBreakDate: &inside, LeaseBreakFee: &zero, LeaseBreakReason: &reason,
			},
			wantErr: "lease_break_fee",
		},
		{
			name:    "date after move out",
			tenant:  models.Tenant{LeaseBreakDate: &outside},
			wantErr: "lease_break_date",
		},
		{
			name:    "date in the past",
			tenant:  models.Tenant{LeaseBreakDate: &past},
			wantErr: "lease_break_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant := tt.tenant
			tenant.MoveInDate = day(2030, 1, 10)

			got, err := ValidateTenant(&tenant, twelveMonthLease(), today)

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, inside, *got.LeaseBreakDate)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.wantErr)
		})
	}
}

func TestValidateTenant_RequiresLease(t *testing.T) {
	_, err := ValidateTenant(&models.Tenant{}, nil, time.Now())
	assert.Error(t, err)
}
