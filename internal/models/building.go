package models

import (
	"time"
)

// Building is a community building that holds apartments and parking spots.
type Building struct {
	AuditInfo
	ConstructedOn  *time.Time `json:"constructed_on,omitempty"`
	BuildingNumber string     `json:"building_number"`
	StreetName     string     `json:"street_name"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Country        string     `json:"country"`
	ZipCode        string     `json:"zip_code"`
	NoOfFloors     int        `json:"no_of_floors"`
	IsConstructed  bool       `json:"is_constructed"`
}

// MaxParkingSpots is the building-wide parking capacity: two spots for each
// of 25 apartments per floor.
func (b *Building) MaxParkingSpots() int {
	return 2 * 25 * b.NoOfFloors
}
