package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/bma/api/internal/domain"
	apierrors "github.com/stwalsh4118/bma/api/internal/errors"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/services"
)

const bookingBody = `{
	"apartment_number": 204,
	"start_date": "2026-04-01",
	"duration": 12,
	"rent_amount": 1500,
	"security_deposit": 1500,
	"tenants_list": [
		{"first_name": "Ada", "last_name": "Lovelace", "email": "Ada@Example.com"}
	]
}`

func bookedLease() *models.Lease {
	return &models.Lease{
		AgreementNumber: 100000000000,
		StartDate:       day(2026, 4, 1),
		EndDate:         day(2027, 4, 1),
		LeaseStatus:     models.LeaseNotStarted,
		PaymentSchedule: models.PaymentMonthly,
		ApartmentNumber: 204,
		Duration:        12,
		RentAmount:      1500,
	}
}

func TestLeaseHandler_Book(t *testing.T) {
	t.Run("books an apartment", func(t *testing.T) {
		router, svc := setupAPIRouter(&memberUser)
		tenant := models.Tenant{
			TenantID:    uuid.MustParse("3f0a4f2e-8a63-4b4e-9a0f-5b7c2c1d9e10"),
			MoveInDate:  day(2026, 4, 1),
			MoveOutDate: day(2027, 4, 1),
			IsActive:    true,
		}
		svc.booking.On("BookApartment", mock.Anything, memberUser, mock.MatchedBy(func(req services.BookingRequest) bool {
			return req.Lease.ApartmentNumber == 204 &&
				req.Lease.StartDate.Equal(day(2026, 4, 1)) &&
				req.Lease.EndDate == nil &&
				req.Lease.PaymentSchedule == models.PaymentMonthly &&
				len(req.Tenants) == 1 &&
				req.Tenants[0].Email == "Ada@Example.com"
		})).Return(&services.BookingResult{Lease: bookedLease(), Tenants: []models.Tenant{tenant}}, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/leases", bookingBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		var body struct {
			Lease   map[string]interface{}   `json:"lease"`
			Tenants []map[string]interface{} `json:"tenants"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "2026-04-01", body.Lease["start_date"])
		assert.Equal(t, "2027-04-01", body.Lease["end_date"])
		require.Len(t, body.Tenants, 1)
		assert.Equal(t, "2027-04-01", body.Tenants[0]["move_out_date"])
		svc.assertExpectations(t)
	})

	t.Run("requires a start date", func(t *testing.T) {
		router, _ := setupAPIRouter(&memberUser)

		w := doRequest(router, http.MethodPost, "/api/v1/leases", `{"apartment_number": 204, "duration": 12}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "start_date")
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		router, _ := setupAPIRouter(&memberUser)

		w := doRequest(router, http.MethodPost, "/api/v1/leases",
			`{"apartment_number": 204, "duration": 12, "start_date": "04/01/2026"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		detail := decodeError(t, w)
		assert.Equal(t, []interface{}{"Must be a date in the format YYYY-MM-DD"}, detail.Details["start_date"])
	})

	t.Run("reports business rule violations together", func(t *testing.T) {
		router, svc := setupAPIRouter(&memberUser)
		verr := &domain.ValidationError{}
		verr.Add("rent_amount", "Rent amount must match the apartment price.")
		verr.Add("tenants_list", "User with email x@example.com does not exist.")
		svc.booking.On("BookApartment", mock.Anything, memberUser, mock.Anything).Return(nil, verr)

		w := doRequest(router, http.MethodPost, "/api/v1/leases", bookingBody)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		detail := decodeError(t, w)
		assert.Contains(t, detail.Details, "rent_amount")
		assert.Contains(t, detail.Details, "tenants_list")
	})

	t.Run("reports a lost race as a conflict", func(t *testing.T) {
		router, svc := setupAPIRouter(&memberUser)
		svc.booking.On("BookApartment", mock.Anything, memberUser, mock.Anything).
			Return(nil, &domain.ConflictError{Resource: "lease", Message: "apartment already has an open lease"})

		w := doRequest(router, http.MethodPost, "/api/v1/leases", bookingBody)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apierrors.ErrConflict, decodeError(t, w).Code)
	})
}

func TestLeaseHandler_Get(t *testing.T) {
	router, svc := setupAPIRouter(&memberUser)
	svc.leases.On("Get", mock.Anything, int64(100000000000)).
		Return(&services.LeaseDetails{Lease: bookedLease()}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/leases/100000000000", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var body LeaseDetailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(100000000000), body.Lease.AgreementNumber)
	assert.Empty(t, body.Tenants)
	svc.assertExpectations(t)
}

func TestLeaseHandler_Transition(t *testing.T) {
	t.Run("moves the lease to the requested status", func(t *testing.T) {
		router, svc := setupAPIRouter(&adminUser)
		lease := bookedLease()
		lease.LeaseStatus = models.LeaseStarted
		svc.leases.On("Transition", mock.Anything, adminUser, int64(100000000000), models.LeaseStarted).Return(lease, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/leases/100000000000/status", `{"lease_status": "started"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.assertExpectations(t)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		router, _ := setupAPIRouter(&adminUser)

		w := doRequest(router, http.MethodPost, "/api/v1/leases/100000000000/status", `{"lease_status": "paused"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "lease_status")
	})
}

func TestLeaseHandler_Break(t *testing.T) {
	t.Run("breaks the lease", func(t *testing.T) {
		router, svc := setupAPIRouter(&adminUser)
		lease := bookedLease()
		lease.LeaseStatus = models.LeaseTerminated
		breakDate := day(2026, 9, 1)
		lease.LeaseBreakDate = &breakDate
		svc.leases.On("BreakLease", mock.Anything, adminUser, int64(100000000000), domain.LeaseBreak{
			Date:   breakDate,
			Reason: "relocation",
			Status: models.LeaseTerminated,
		}).Return(lease, nil)

		w := doRequest(router, http.MethodPost, "/api/v1/leases/100000000000/break",
			`{"lease_break_date": "2026-09-01", "lease_break_reason": "relocation", "lease_status": "terminated"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "2026-09-01", body["lease_break_date"])
		svc.assertExpectations(t)
	})

	t.Run("only allows terminal statuses", func(t *testing.T) {
		router, _ := setupAPIRouter(&adminUser)

		w := doRequest(router, http.MethodPost, "/api/v1/leases/100000000000/break",
			`{"lease_break_date": "2026-09-01", "lease_status": "started"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
