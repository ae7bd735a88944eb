package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/bma/api/internal/errors"
	"github.com/stwalsh4118/bma/api/internal/models"
	"github.com/stwalsh4118/bma/api/internal/services"
)

// ApartmentHandler handles apartment-related HTTP requests.
type ApartmentHandler struct {
	service services.ApartmentService
}

// NewApartmentHandler creates a new ApartmentHandler instance.
func NewApartmentHandler(service services.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{service: service}
}

// ApartmentRequest describes one apartment to create. The apartment number
// is always allocated by the server.
type ApartmentRequest struct {
	BuildingNumber string `json:"building_number" binding:"required,building_number"`
	Description    string `json:"description" binding:"max=2000"`
	Stove          string `json:"stove" binding:"omitempty,oneof=Electric Gas"`
	Laundry        string `json:"laundry" binding:"omitempty,oneof=in_unit floor building not_available"`
	FloorNumber    int    `json:"floor_number" binding:"required,gte=1"`
	Price          int    `json:"price" binding:"required,gte=1"`
	Bedrooms       int    `json:"bedrooms" binding:"gte=0"`
	Bathrooms      int    `json:"bathrooms" binding:"gte=0"`
	Closets        int    `json:"closets" binding:"gte=0"`
	NoOfOccupants  int    `json:"no_of_occupants" binding:"gte=0"`
	Dishwasher     bool   `json:"dishwasher"`
	Microwave      bool   `json:"microwave"`
	Carpet         bool   `json:"carpet"`
	Refrigerator   bool   `json:"refrigerator"`
	AirCondition   bool   `json:"air_condition"`
	Pets           bool   `json:"pets"`
	Smoking        bool   `json:"smoking"`
}

func (r ApartmentRequest) model() models.Apartment {
	a := models.Apartment{
		BuildingNumber: r.BuildingNumber,
		Description:    r.Description,
		Stove:          r.Stove,
		Laundry:        r.Laundry,
		FloorNumber:    r.FloorNumber,
		Price:          r.Price,
		Bedrooms:       r.Bedrooms,
		Bathrooms:      r.Bathrooms,
		Closets:        r.Closets,
		NoOfOccupants:  r.NoOfOccupants,
		Dishwasher:     r.Dishwasher,
		Microwave:      r.Microwave,
		Carpet:         r.Carpet,
		Refrigerator:   r.Refrigerator,
		AirCondition:   r.AirCondition,
		Pets:           r.Pets,
		Smoking:        r.Smoking,
	}
	if a.Stove == "" {
		a.Stove = models.StoveElectric
	}
	if a.Laundry == "" {
		a.Laundry = models.LaundryNotAvailable
	}
	return a
}

// ApartmentsResponse is the response of a bulk create.
type ApartmentsResponse struct {
	Apartments []models.Apartment `json:"apartments"`
	Count      int                `json:"count"`
}

// Create handles POST /api/v1/apartments. The body is a single apartment
// object or an array of them; an array is created all or nothing.
func (h *ApartmentHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}
	raw = bytes.TrimSpace(raw)
	batch := len(raw) > 0 && raw[0] == '['

	var reqs []ApartmentRequest
	if batch {
		err = json.Unmarshal(raw, &reqs)
	} else {
		var one ApartmentRequest
		err = json.Unmarshal(raw, &one)
		reqs = []ApartmentRequest{one}
	}
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body", map[string]interface{}{"body": err.Error()})
		return
	}
	if len(reqs) == 0 {
		apierrors.BadRequest(c, "At least one apartment is required", nil)
		return
	}

	drafts := make([]models.Apartment, len(reqs))
	for i := range reqs {
		if err := binding.Validator.ValidateStruct(&reqs[i]); err != nil {
			var verrs validator.ValidationErrors
			switch {
			case !errors.As(err, &verrs):
				apierrors.BadRequest(c, "Invalid request body", nil)
			case batch:
				apierrors.ValidationErrorAt(c, i, verrs)
			default:
				apierrors.ValidationError(c, verrs)
			}
			return
		}
		drafts[i] = reqs[i].model()
	}

	created, err := h.service.CreateApartments(c.Request.Context(), p, drafts)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}

	if !batch {
		c.JSON(http.StatusCreated, created[0])
		return
	}
	c.JSON(http.StatusCreated, ApartmentsResponse{Apartments: created, Count: len(created)})
}

// Get handles GET /api/v1/apartments/:number.
func (h *ApartmentHandler) Get(c *gin.Context) {
	number, ok := intParam(c, "number")
	if !ok {
		return
	}
	apt, err := h.service.Get(c.Request.Context(), number)
	if err != nil {
		apierrors.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}
