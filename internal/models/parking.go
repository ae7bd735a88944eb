package models

// ParkingType is the kind of parking space.
type ParkingType string

const (
	ParkingCovered   ParkingType = "covered"
	ParkingUncovered ParkingType = "uncovered"
	ParkingGarage    ParkingType = "garage"
)

// ParkingStatus is the occupancy state of a parking space.
type ParkingStatus string

const (
	ParkingAvailable   ParkingStatus = "available"
	ParkingReserved    ParkingStatus = "reserved"
	ParkingOccupied    ParkingStatus = "occupied"
	ParkingMaintenance ParkingStatus = "maintenance"
)

// InUse reports whether the status counts against an apartment's spot limit.
func (s ParkingStatus) InUse() bool {
	return s == ParkingReserved || s == ParkingOccupied
}

// ParkingSpot is a parking space of a building, optionally linked to an
// apartment through a lease.
type ParkingSpot struct {
	AuditInfo
	ApartmentNumber      *int               `json:"apartment_number"`
	LeaseAgreementNumber *int64             `json:"lease_agreement_number"`
	ParkingFee           map[string]float64 `json:"parking_fee"`
	BuildingNumber       string             `json:"building_number"`
	ParkingType          ParkingType        `json:"parking_type"`
	ParkingStatus        ParkingStatus      `json:"parking_status"`
	ParkingNumber        int                `json:"parking_number"`
}
