package models

import (
	"time"
)

// LeaseStatus is the lifecycle state of a lease.
type LeaseStatus string

const (
	LeaseNotStarted  LeaseStatus = "not_started"
	LeaseStarted     LeaseStatus = "started"
	LeaseCompleted   LeaseStatus = "completed"
	LeaseTransferred LeaseStatus = "transferred"
	LeaseTerminated  LeaseStatus = "terminated"
)

// IsTerminal reports whether no further transition is possible.
func (s LeaseStatus) IsTerminal() bool {
	return s == LeaseCompleted || s == LeaseTransferred || s == LeaseTerminated
}

// Payment schedules.
const (
	PaymentWeekly   = "weekly"
	PaymentBiWeekly = "bi_weekly"
	PaymentMonthly  = "monthly"
)

// Lease is an agreement for one apartment, shared by one or more tenants.
type Lease struct {
	AuditInfo
	StartDate         time.Time          `json:"start_date"`
	EndDate           time.Time          `json:"end_date"`
	LeaseBreakDate    *time.Time         `json:"lease_break_date,omitempty"`
	LeaseExemption    *string            `json:"lease_exemption,omitempty"`
	LeaseBreakReason  *string            `json:"lease_break_reason,omitempty"`
	Fees              map[string]float64 `json:"fees"`
	Discounts         map[string]float64 `json:"discounts"`
	PaymentSchedule   string             `json:"payment_schedule"`
	LeaseStatus       LeaseStatus        `json:"lease_status"`
	LeaseNotes        string             `json:"lease_notes"`
	AgreementNumber   int64              `json:"agreement_number"`
	RentAmount        float64            `json:"rent_amount"`
	SecurityDeposit   float64            `json:"security_deposit"`
	AdditionalCharges float64            `json:"additional_charges"`
	ApartmentNumber   int                `json:"apartment_number"`
	Duration          int                `json:"duration"`
	LeaseBreakFlag    bool               `json:"lease_break_flag"`
}
