package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/stwalsh4118/bma/api/internal/models"
)

// Allowed lease durations in months.
var LeaseDurations = []int{6, 9, 12}

// ValidDuration reports whether months is an allowed lease duration.
func ValidDuration(months int) bool {
	for _, d := range LeaseDurations {
		if d == months {
			return true
		}
	}
	return false
}

// DeriveEndDate returns start plus duration months.
func DeriveEndDate(start time.Time, duration int) time.Time {
	return AddMonths(start, duration)
}

var leaseTransitions = map[models.LeaseStatus][]models.LeaseStatus{
	models.LeaseNotStarted: {models.LeaseStarted, models.LeaseTerminated},
	models.LeaseStarted:    {models.LeaseCompleted, models.LeaseTransferred, models.LeaseTerminated},
}

// ValidateLeaseTransition rejects every transition not listed in the lease
// state machine. Terminal states have no outgoing transitions.
func ValidateLeaseTransition(from, to models.LeaseStatus) error {
	for _, next := range leaseTransitions[from] {
		if next == to {
			return nil
		}
	}
	return NewValidationError("lease_status",
		fmt.Sprintf("Lease cannot move from `%s` to `%s`.", from, to))
}

// LeaseDraft is the lease part of a booking request.
type LeaseDraft struct {
	StartDate         time.Time
	EndDate           *time.Time
	LeaseExemption    *string
	Fees              map[string]float64
	Discounts         map[string]float64
	PaymentSchedule   string
	LeaseNotes        string
	RentAmount        float64
	SecurityDeposit   float64
	AdditionalCharges float64
	ApartmentNumber   int
	Duration          int
}

// TenantEntry is one occupant of a booking request.
type TenantEntry struct {
	ApplicationFee *float64
	FirstName      string
	LastName       string
	Email          string
}

// ValidateLeaseDraft checks the booking preconditions that depend only on
// the request and the apartment: availability, rent, dates and fee documents.
func ValidateLeaseDraft(d LeaseDraft, apt *models.Apartment, today time.Time) error {
	verr := &ValidationError{}

	if apt == nil {
		verr.Add("apartment_number", "The provided apartment does not exist.")
	} else {
		if !apt.IsAvailable || apt.Status != models.AuditActive {
			verr.Add("apartment_number", "The provided apartment is not available.")
		}
		if d.RentAmount != float64(apt.Price) {
			verr.Add("rent_amount", "The provided rent amount does not match the price for the apartment.")
		}
	}

	if !ValidDuration(d.Duration) {
		verr.Add("duration", "Invalid lease duration.")
	}
	if d.StartDate.IsZero() {
		verr.Add("start_date", "This field is required.")
	} else {
		start := Date(d.StartDate)
		if start.Before(Date(today)) {
			verr.Add("start_date", "Start date cannot be in the past.")
		}
		if d.EndDate != nil && !Date(*d.EndDate).After(start) {
			verr.Add("end_date", "End date must be after the start date.")
		}
	}

	if d.RentAmount < 1 {
		verr.Add("rent_amount", "Ensure this value is greater than or equal to 1.")
	}
	if d.SecurityDeposit < 0 {
		verr.Add("security_deposit", "Ensure this value is greater than or equal to 0.")
	}
	if d.AdditionalCharges < 0 {
		verr.Add("additional_charges", "Ensure this value is greater than or equal to 0.")
	}
	switch d.PaymentSchedule {
	case models.PaymentWeekly, models.PaymentBiWeekly, models.PaymentMonthly:
	default:
		verr.Add("payment_schedule", fmt.Sprintf("`%s` is not a valid choice.", d.PaymentSchedule))
	}

	addSchemaError(verr, LeaseFeesSchema.Validate(feesOrDefault(d.Fees, DefaultFees)))
	addSchemaError(verr, LeaseDiscountsSchema.Validate(feesOrDefault(d.Discounts, DefaultDiscounts)))

	return verr.OrNil()
}

// ValidateTenantEntries checks that every tenant entry is complete and that
// no email appears twice in one booking.
func ValidateTenantEntries(entries []TenantEntry) error {
	verr := &ValidationError{}
	if len(entries) == 0 {
		verr.Add("tenants_list", "At least one tenant is required.")
		return verr
	}

	seen := make(map[string]bool, len(entries))
	for i, t := range entries {
		if strings.TrimSpace(t.FirstName) == "" || strings.TrimSpace(t.LastName) == "" ||
			strings.TrimSpace(t.Email) == "" || t.ApplicationFee == nil {
			verr.Add("tenants_list", fmt.Sprintf(
				"Tenant %d must have 'first_name', 'last_name', 'email', and 'application_fee' fields.", i+1))
			continue
		}
		if *t.ApplicationFee < 0 {
			verr.Add("tenants_list", fmt.Sprintf("Tenant %d application fee cannot be negative.", i+1))
		}
		email := NormalizeEmail(t.Email)
		if seen[email] {
			verr.Add("tenants_list", fmt.Sprintf("User with email %s is listed more than once.", t.Email))
		}
		seen[email] = true
	}
	return verr.OrNil()
}

// NormalizeEmail lower-cases and trims an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewLease builds the lease record of a validated draft, deriving the end
// date when it was not supplied.
func NewLease(d LeaseDraft, actor int64, now time.Time) *models.Lease {
	start := Date(d.StartDate)
	end := DeriveEndDate(start, d.Duration)
	if d.EndDate != nil {
		end = Date(*d.EndDate)
	}

	return &models.Lease{
		AuditInfo:         models.NewAuditInfo(actor, now),
		StartDate:         start,
		EndDate:           end,
		LeaseExemption:    d.LeaseExemption,
		Fees:              feesOrDefault(d.Fees, DefaultFees),
		Discounts:         feesOrDefault(d.Discounts, DefaultDiscounts),
		PaymentSchedule:   d.PaymentSchedule,
		LeaseStatus:       models.LeaseNotStarted,
		LeaseNotes:        d.LeaseNotes,
		RentAmount:        d.RentAmount,
		SecurityDeposit:   d.SecurityDeposit,
		AdditionalCharges: d.AdditionalCharges,
		ApartmentNumber:   d.ApartmentNumber,
		Duration:          d.Duration,
	}
}

// LeaseBreak records the early termination of a lease.
type LeaseBreak struct {
	Date   time.Time
	Reason string
	// Status is the terminal state the lease moves to, terminated or transferred.
	Status models.LeaseStatus
}

// ApplyLeaseBreak validates a lease break against the lease and, on success,
// records it on the lease.
func ApplyLeaseBreak(lease *models.Lease, brk LeaseBreak, today time.Time) error {
	verr := &ValidationError{}

	if brk.Status == "" {
		brk.Status = models.LeaseTerminated
	}
	if brk.Status != models.LeaseTerminated && brk.Status != models.LeaseTransferred {
		verr.Add("lease_status", "A lease break must end in `terminated` or `transferred`.")
	} else if err := ValidateLeaseTransition(lease.LeaseStatus, brk.Status); err != nil {
		verr.Add("lease_status", fmt.Sprintf("Lease cannot move from `%s` to `%s`.", lease.LeaseStatus, brk.Status))
	}
	if lease.LeaseBreakFlag {
		verr.Add("lease_break_flag", "Lease has already been broken.")
	}
	if strings.TrimSpace(brk.Reason) == "" {
		verr.Add("lease_break_reason", "Lease break reason is required if lease is broken.")
	}

	if brk.Date.IsZero() {
		verr.Add("lease_break_date", "Lease break date is required if lease is broken.")
	} else {
		date := Date(brk.Date)
		if date.Before(Date(lease.StartDate)) {
			verr.Add("lease_break_date", "Lease break date is before the lease start date.")
		}
		if date.After(Date(lease.EndDate)) {
			verr.Add("lease_break_date", "Lease break date cannot be greater than end date.")
		}
		if date.Before(Date(today)) {
			verr.Add("lease_break_date", "Lease break date cannot be in the past.")
		}
	}

	if verr.HasErrors() {
		return verr
	}

	date := Date(brk.Date)
	reason := strings.TrimSpace(brk.Reason)
	lease.LeaseBreakFlag = true
	lease.LeaseBreakDate = &date
	lease.LeaseBreakReason = &reason
	lease.LeaseStatus = brk.Status
	return nil
}

func addSchemaError(verr *ValidationError, err error) {
	if err == nil {
		return
	}
	if se, ok := err.(*SchemaError); ok {
		for _, msg := range se.Messages() {
			verr.Add(se.Field, msg)
		}
		return
	}
	verr.Add(NonFieldErrors, err.Error())
}

func feesOrDefault(doc map[string]float64, defaults func() map[string]float64) map[string]float64 {
	if doc == nil {
		return defaults()
	}
	return doc
}
