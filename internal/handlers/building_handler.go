package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/bma/api/internal/errors"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/services"
)

// BuildingHandler handles building-related HTTP requests.
type BuildingHandler struct {
	service services.BuildingService
}

// NewBuildingHandler creates a new BuildingHandler instance.
func NewBuildingHandler(service services.BuildingService) *BuildingHandler {
	return &BuildingHandler{service: service}
}

// BuildingRequest is the body of POST /api/v1/buildings.
type BuildingRequest struct {
	ConstructedOn  *string `json:"constructed_on" binding:"omitempty,datetime=2006-01-02"`
	BuildingNumber string  `json:"building_number" binding:"required,building_number"`
	StreetName     string  `json:"street_name" binding:"required,max=255"`
	City           string  `json:"city" binding:"required,max=100"`
	State          string  `json:"state" binding:"required,max=100"`
	Country        string  `json:"country" binding:"required,max=100"`
	ZipCode        string  `json:"zip_code" binding:"required,zip_code"`
	NoOfFloors     int     `json:"no_of_floors" binding:"required,gte=1"`
	IsConstructed  bool    `json:"is_constructed"`
}

// BuildingResponse renders a building with a calendar construction date.
type BuildingResponse struct {
	models.Building
	ConstructedOn *string `json:"constructed_on,omitempty"`
}

func newBuildingResponse(b *models.Building) BuildingResponse {
	return BuildingResponse{Building: *b, ConstructedOn: formatOptionalDate(b.ConstructedOn)}
}

// Create handles POST /api/v1/buildings.
func (h *BuildingHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req BuildingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), p, models.Building{
		ConstructedOn:  parseOptionalDate(req.ConstructedOn),
		BuildingNumber: req.BuildingNumber,
		StreetName:     req.StreetName,
		City:           req.City,
		State:          req.State,
		Country:        req.Country,
		ZipCode:        req.ZipCode,
		NoOfFloors:     req.NoOfFloors,
		IsConstructed:  req.IsConstructed,
	})
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBuildingResponse(b))
}

// Get handles GET /api/v1/buildings/:number.
func (h *BuildingHandler) Get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBuildingResponse(b))
}
