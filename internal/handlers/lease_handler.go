package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/bma/api/internal/domain"
	apierrors "github.com/stwalsh4118/bma/api/internal/errors"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/services"
)

// LeaseHandler handles booking and lease lifecycle requests.
type LeaseHandler struct {
	booking services.BookingService
	leases  services.LeaseService
}

// NewLeaseHandler creates a new LeaseHandler instance.
func NewLeaseHandler(booking services.BookingService, leases services.LeaseService) *LeaseHandler {
	return &LeaseHandler{booking: booking, leases: leases}
}

// TenantEntryRequest is one occupant of a booking.
type TenantEntryRequest struct {
	ApplicationFee *float64 `json:"application_fee"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
}

// BookApartmentRequest is the body of POST /api/v1/leases. Business rules
// (rent, availability, dates, fee documents, tenants) are checked by the
// booking service so all violations are reported together.
type BookApartmentRequest struct {
	EndDate           *string              `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	LeaseExemption    *string              `json:"lease_exemption"`
	Fees              map[string]float64   `json:"fees"`
	Discounts         map[string]float64   `json:"discounts"`
	StartDate         string               `json:"start_date" binding:"required,datetime=2006-01-02"`
	PaymentSchedule   string               `json:"payment_schedule"`
	LeaseNotes        string               `json:"lease_notes"`
	TenantsList       []TenantEntryRequest `json:"tenants_list"`
	RentAmount        float64              `json:"rent_amount"`
	SecurityDeposit   float64              `json:"security_deposit"`
	AdditionalCharges float64              `json:"additional_charges"`
	ApartmentNumber   int                  `json:"apartment_number" binding:"required"`
	Duration          int                  `json:"duration" binding:"required"`
}

func (r BookApartmentRequest) booking() services.BookingRequest {
	schedule := r.PaymentSchedule
	if schedule == "" {
		schedule = models.PaymentMonthly
	}

	tenants := make([]domain.TenantEntry, len(r.TenantsList))
	for i, t := range r.TenantsList {
		tenants[i] = domain.TenantEntry{
			ApplicationFee: t.ApplicationFee,
			FirstName:      t.FirstName,
			LastName:       t.LastName,
			Email:          t.Email,
		}
	}

	return services.BookingRequest{
		Lease: domain.LeaseDraft{
			StartDate:         parseDate(r.StartDate),
			EndDate:           parseOptionalDate(r.EndDate),
			LeaseExemption:    r.LeaseExemption,
			Fees:              r.Fees,
			Discounts:         r.Discounts,
			PaymentSchedule:   schedule,
			LeaseNotes:        r.LeaseNotes,
			RentAmount:        r.RentAmount,
			SecurityDeposit:   r.SecurityDeposit,
			AdditionalCharges: r.AdditionalCharges,
			ApartmentNumber:   r.ApartmentNumber,
			Duration:          r.Duration,
		},
		Tenants: tenants,
	}
}

// LeaseStatusRequest is the body of POST /api/v1/leases/:number/status.
type LeaseStatusRequest struct {
	LeaseStatus string `json:"lease_status" binding:"required,oneof=not_started started completed transferred terminated"`
}

// LeaseBreakRequest is the body of POST /api/v1/leases/:number/break.
type LeaseBreakRequest struct {
	LeaseBreakDate   string `json:"lease_break_date" binding:"required,datetime=2006-01-02"`
	LeaseBreakReason string `json:"lease_break_reason"`
	LeaseStatus      string `json:"lease_status" binding:"omitempty,oneof=terminated transferred"`
}

// LeaseResponse renders a lease with calendar dates.
type LeaseResponse struct {
	models.Lease
	LeaseBreakDate *string `json:"lease_break_date,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
}

func newLeaseResponse(l *models.Lease) LeaseResponse {
	return LeaseResponse{
		Lease:          *l,
		LeaseBreakDate: formatOptionalDate(l.LeaseBreakDate),
		StartDate:      formatDate(l.StartDate),
		EndDate:        formatDate(l.EndDate),
	}
}

// TenantResponse renders a tenant with calendar dates.
type TenantResponse struct {
	models.Tenant
	LeaseBreakDate *string `json:"lease_break_date,omitempty"`
	MoveInDate     string  `json:"move_in_date"`
	MoveOutDate    string  `json:"move_out_date"`
}

func newTenantResponse(t *models.Tenant) TenantResponse {
	return TenantResponse{
		Tenant:         *t,
		LeaseBreakDate: formatOptionalDate(t.LeaseBreakDate),
		MoveInDate:     formatDate(t.MoveInDate),
		MoveOutDate:    formatDate(t.MoveOutDate),
	}
}

// LeaseDetailsResponse is a lease with its tenants.
type LeaseDetailsResponse struct {
	Lease   LeaseResponse    `json:"lease"`
	Tenants []TenantResponse `json:"tenants"`
}

func newLeaseDetailsResponse(l *models.Lease, tenants []models.Tenant) LeaseDetailsResponse {
	resp := LeaseDetailsResponse{Lease: newLeaseResponse(l), Tenants: make([]TenantResponse, len(tenants))}
	for i := range tenants {
		resp.Tenants[i] = newTenantResponse(&tenants[i])
	}
	return resp
}

// Book handles POST /api/v1/leases.
func (h *LeaseHandler) Book(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req BookApartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.booking.BookApartment(c.Request.Context(), p, req.booking())
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newLeaseDetailsResponse(result.Lease, result.Tenants))
}

// Get handles GET /api/v1/leases/:number.
func (h *LeaseHandler) Get(c *gin.Context) {
	number, ok := int64Param(c, "number")
	if !ok {
		return
	}
	details, err := h.leases.Get(c.Request.Context(), number)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLeaseDetailsResponse(details.Lease, details.Tenants))
}

// Transition handles POST /api/v1/leases/:number/status.
func (h *LeaseHandler) Transition(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	number, ok := int64Param(c, "number")
	if !ok {
		return
	}
	var req LeaseStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	lease, err := h.leases.Transition(c.Request.Context(), p, number, models.LeaseStatus(req.LeaseStatus))
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLeaseResponse(lease))
}

// Break handles POST /api/v1/leases/:number/break.
func (h *LeaseHandler) Break(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	number, ok := int64Param(c, "number")
	if !ok {
		return
	}
	var req LeaseBreakRequest
	if !bindJSON(c, &req) {
		return
	}

	lease, err := h.leases.BreakLease(c.Request.Context(), p, number, domain.LeaseBreak{
		Date:   parseDate(req.LeaseBreakDate),
		Reason: req.LeaseBreakReason,
		Status: models.LeaseStatus(req.LeaseStatus),
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLeaseResponse(lease))
}
