package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/bma/api/internal/errors"
	"github.com/stwalsh4118/bma/api/internal/services"
)

// TenantHandler handles tenant-related HTTP requests.
type TenantHandler struct {
	service services.TenantService
}

// NewTenantHandler creates a new TenantHandler instance.
func NewTenantHandler(service services.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

// TenantPatchRequest is the body of PATCH /api/v1/tenants/:id. The move-out
// date is not accepted; it always follows from move-in and the lease
// duration.
type TenantPatchRequest struct {
	MoveInDate       *string  `json:"move_in_date" binding:"omitempty,datetime=2006-01-02"`
	LeaseBreakDate   *string  `json:"lease_break_date" binding:"omitempty,datetime=2006-01-02"`
	LeaseBreakFlag   *bool    `json:"lease_break_flag"`
	LeaseBreakFee    *float64 `json:"lease_break_fee"`
	LeaseBreakReason *string  `json:"lease_break_reason"`
	ApplicationFee   *float64 `json:"application_fee"`
	Notes            *string  `json:"notes"`
}

// Get handles GET /api/v1/tenants/:id.
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTenantResponse(t))
}

// Update handles PATCH /api/v1/tenants/:id.
func (h *TenantHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req TenantPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.service.Update(c.Request.Context(), p, id, services.TenantUpdate{
		MoveInDate:       parseOptionalDate(req.MoveInDate),
		LeaseBreakDate:   parseOptionalDate(req.LeaseBreakDate),
		LeaseBreakFlag:   req.LeaseBreakFlag,
		LeaseBreakFee:    req.LeaseBreakFee,
		LeaseBreakReason: req.LeaseBreakReason,
		ApplicationFee:   req.ApplicationFee,
		Notes:            req.Notes,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTenantResponse(t))
}
