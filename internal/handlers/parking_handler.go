package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/bma/api/internal/errors"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/services"
)

// ParkingHandler handles parking-related HTTP requests.
type ParkingHandler struct {
	service services.ParkingService
}

// NewParkingHandler creates a new ParkingHandler instance.
func NewParkingHandler(service services.ParkingService) *ParkingHandler {
	return &ParkingHandler{service: service}
}

// nullableInt tells an explicit null apart from an absent field.
type nullableInt struct {
	Value *int
	Set   bool
}

func (n *nullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	return json.Unmarshal(data, &n.Value)
}

// ParkingCreateRequest is the body of POST /api/v1/parking.
type ParkingCreateRequest struct {
	ApartmentNumber *int               `json:"apartment_number"`
	ParkingFee      map[string]float64 `json:"parking_fee"`
	BuildingNumber  string             `json:"building_number" binding:"required,building_number"`
	ParkingType     string             `json:"parking_type" binding:"required,oneof=covered uncovered garage"`
	ParkingStatus   string             `json:"parking_status" binding:"omitempty,oneof=available reserved occupied maintenance"`
}

// ParkingUpdateRequest is the body of PATCH /api/v1/parking/:number.
type ParkingUpdateRequest struct {
	LeaseAgreementNumber *int64             `json:"lease_agreement_number"`
	ParkingType          *string            `json:"parking_type" binding:"omitempty,oneof=covered uncovered garage"`
	ParkingFee           map[string]float64 `json:"parking_fee"`
	ApartmentNumber      nullableInt        `json:"apartment_number"`
	ParkingStatus        string             `json:"parking_status" binding:"required,oneof=available reserved occupied maintenance"`
}

// Create handles POST /api/v1/parking.
func (h *ParkingHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req ParkingCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	spot, err := h.service.Create(c.Request.Context(), p, services.ParkingCreate{
		ApartmentNumber: req.ApartmentNumber,
		ParkingFee:      req.ParkingFee,
		BuildingNumber:  req.BuildingNumber,
		ParkingType:     models.ParkingType(req.ParkingType),
		Status:          models.ParkingStatus(req.ParkingStatus),
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, spot)
}

// Update handles PATCH /api/v1/parking/:number.
func (h *ParkingHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	number, ok := intParam(c, "number")
	if !ok {
		return
	}
	var req ParkingUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	upd := services.ParkingUpdate{
		ApartmentNumber:      req.ApartmentNumber.Value,
		LeaseAgreementNumber: req.LeaseAgreementNumber,
		ParkingFee:           req.ParkingFee,
		Status:               models.ParkingStatus(req.ParkingStatus),
		ClearApartment:       req.ApartmentNumber.Set && req.ApartmentNumber.Value == nil,
	}
	if req.ParkingType != nil {
		pt := models.ParkingType(*req.ParkingType)
		upd.ParkingType = &pt
	}

	spot, err := h.service.Update(c.Request.Context(), p, number, upd)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, spot)
}

// Get handles GET /api/v1/parking/:number.
func (h *ParkingHandler) Get(c *gin.Context) {
	number, ok := intParam(c, "number")
	if !ok {
		return
	}
	spot, err := h.service.Get(c.Request.Context(), number)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, spot)
}
