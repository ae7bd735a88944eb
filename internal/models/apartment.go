package models

// Stove types.
const (
	StoveElectric = "Electric"
	StoveGas      = "Gas"
)

// Laundry locations.
const (
	LaundryInUnit       = "in_unit"
	LaundryFloor        = "floor"
	LaundryBuilding     = "building"
	LaundryNotAvailable = "not_available"
)

// Apartment is a rentable unit in a building. ApartmentNumber is derived from
// the floor and the existing occupancy of that floor, never chosen by users.
// IsAvailable is only changed by the lease lifecycle.
type Apartment struct {
	AuditInfo
	Description     string `json:"description"`
	BuildingNumber  string `json:"building_number"`
	Stove           string `json:"stove"`
	Laundry         string `json:"laundry"`
	ApartmentNumber int    `json:"apartment_number"`
	Price           int    `json:"price"`
	Bedrooms        int    `json:"bedrooms"`
	Bathrooms       int    `json:"bathrooms"`
	Closets         int    `json:"closets"`
	FloorNumber     int    `json:"floor_number"`
	NoOfOccupants   int    `json:"no_of_occupants"`
	IsAvailable     bool   `json:"is_available"`
	Dishwasher      bool   `json:"dishwasher"`
	Microwave       bool   `json:"microwave"`
	Carpet          bool   `json:"carpet"`
	Refrigerator    bool   `json:"refrigerator"`
	AirCondition    bool   `json:"air_condition"`
	Pets            bool   `json:"pets"`
	Smoking         bool   `json:"smoking"`
}
