package domain

import (
	"fmt"

	"github.com/stwalsh4118/bma/api/internal/models"
)

// MaxSpotsPerApartment is the number of reserved or occupied spots one
// apartment may hold.
const MaxSpotsPerApartment = 2

// ParkingChange is the requested state of a parking spot.
type ParkingChange struct {
	ParkingFee           map[string]float64
	ApartmentNumber      *int
	LeaseAgreementNumber *int64
	Status               models.ParkingStatus
	// ClearApartment is set when the request explicitly unlinks the apartment.
	ClearApartment bool
}

// ParkingSnapshot is the persisted state the guard checks a change against.
// The service reads it inside the transaction that applies the change.
type ParkingSnapshot struct {
	Building *models.Building
	// Spot is the spot being updated, as locked by the service.
	Spot *models.ParkingSpot
	// Lease is the lease named by the change, nil when it does not exist.
	Lease *models.Lease
	// Apartment is the lease's apartment.
	Apartment *models.Apartment
	// BuildingSpots counts all spots of the building.
	BuildingSpots int
	// ApartmentActiveSpots counts reserved/occupied spots of the lease's apartment.
	ApartmentActiveSpots int
}

// ValidateParkingTransition enforces the parking occupancy invariants before
// a spot is created or updated.
func ValidateParkingTransition(p Principal, op OperationKind, change ParkingChange, snap ParkingSnapshot) error {
	if err := validateParkingFeeEdit(p, change.ParkingFee); err != nil {
		return err
	}

	switch op {
	case OperationCreate:
		return validateParkingCreate(change, snap)
	case OperationUpdate:
		return validateParkingUpdate(change, snap)
	default:
		return NewValidationError(NonFieldErrors, fmt.Sprintf("unsupported operation %s", op))
	}
}

func validateParkingFeeEdit(p Principal, fee map[string]float64) error {
	if fee == nil {
		return nil
	}
	if !p.IsAdmin {
		return &PermissionError{Message: "only administrators can set parking fees"}
	}
	return ValidateParkingFeeAmounts(fee)
}

func validateParkingCreate(change ParkingChange, snap ParkingSnapshot) error {
	if change.ApartmentNumber != nil {
		return NewValidationError("apartment_number", fmt.Sprintf(
			"Cannot reserve parking spot for apartment `%d` before booking apartment.", *change.ApartmentNumber))
	}
	if change.Status != models.ParkingAvailable {
		return NewValidationError("parking_status",
			"Parking spot cannot be created with status other than `available`.")
	}
	if snap.Building == nil {
		return NewValidationError("building_number", "Building is required.")
	}

	limit := snap.Building.MaxParkingSpots()
	if snap.BuildingSpots >= limit {
		return &CapacityError{
			Field:   "building_number",
			Message: fmt.Sprintf("Number of parking spaces for building `%s` exceeds the maximum limit.", snap.Building.BuildingNumber),
			Limit:   limit,
		}
	}
	return nil
}

func validateParkingUpdate(change ParkingChange, snap ParkingSnapshot) error {
	if change.LeaseAgreementNumber == nil || *change.LeaseAgreementNumber == 0 {
		if change.ApartmentNumber != nil || change.ClearApartment {
			return NewValidationError("apartment_number",
				"Apartment link cannot be changed without a lease agreement.")
		}
		return NewValidationError("lease_agreement_number",
			"A lease agreement number is required to reserve a parking spot.")
	}
	if snap.Lease == nil {
		return &NotFoundError{Resource: "lease", Key: *change.LeaseAgreementNumber}
	}
	if snap.Lease.LeaseStatus.IsTerminal() {
		return NewValidationError("lease_agreement_number",
			fmt.Sprintf("Lease `%d` is %s.", snap.Lease.AgreementNumber, snap.Lease.LeaseStatus))
	}
	if change.ClearApartment {
		return NewValidationError("apartment_number",
			"A reserved parking spot must stay linked to the lease's apartment.")
	}
	if change.ApartmentNumber != nil && *change.ApartmentNumber != snap.Lease.ApartmentNumber {
		return NewValidationError("apartment_number", fmt.Sprintf(
			"Apartment `%d` does not belong to lease `%d`.", *change.ApartmentNumber, snap.Lease.AgreementNumber))
	}

	held, err := validateSpotHolder(snap)
	if err != nil {
		return err
	}

	// A spot the lease already holds is counted; changing its status does
	// not take another one.
	if !held && snap.ApartmentActiveSpots >= MaxSpotsPerApartment {
		return &CapacityError{
			Field: "apartment_number",
			Message: fmt.Sprintf("Cannot reserve more than two parking spots for apartment `%d`.",
				snap.Lease.ApartmentNumber),
			Limit: MaxSpotsPerApartment,
		}
	}

	if !change.Status.InUse() {
		return NewValidationError("parking_status",
			"Parking spot cannot be updated with status other than `reserved` or `occupied`.")
	}
	return nil
}

// validateSpotHolder checks the current state of the spot against the lease
// that wants it. It reports whether the lease already holds the spot.
func validateSpotHolder(snap ParkingSnapshot) (bool, error) {
	spot := snap.Spot
	if spot == nil {
		return false, nil
	}
	if spot.ParkingStatus == models.ParkingMaintenance {
		return false, NewValidationError("parking_status",
			fmt.Sprintf("Parking spot `%d` is under maintenance.", spot.ParkingNumber))
	}
	if snap.Apartment != nil && spot.BuildingNumber != snap.Apartment.BuildingNumber {
		return false, NewValidationError("apartment_number", fmt.Sprintf(
			"Apartment `%d` is not in building `%s` of parking spot `%d`.",
			snap.Apartment.ApartmentNumber, spot.BuildingNumber, spot.ParkingNumber))
	}
	if !spot.ParkingStatus.InUse() {
		return false, nil
	}
	if spot.LeaseAgreementNumber == nil || *spot.LeaseAgreementNumber != snap.Lease.AgreementNumber {
		return false, NewValidationError("lease_agreement_number", fmt.Sprintf(
			"Parking spot `%d` is already %s under another lease.", spot.ParkingNumber, spot.ParkingStatus))
	}
	return true, nil
}
