package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant binds a user to a lease for a move-in/move-out window.
type Tenant struct {
	AuditInfo
	MoveInDate       time.Time  `json:"move_in_date"`
	MoveOutDate      time.Time  `json:"move_out_date"`
	LeaseBreakDate   *time.Time `json:"lease_break_date,omitempty"`
	LeaseBreakReason *string    `json:"lease_break_reason,omitempty"`
	LeaseBreakFee    *float64   `json:"lease_break_fee,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	LeaseID          int64      `json:"lease"`
	UserID           int64      `json:"user"`
	ApplicationFee   float64    `json:"application_fee"`
	TenantID         uuid.UUID  `json:"tenant_id"`
	IsActive         bool       `json:"is_active"`
	LeaseBreakFlag   bool       `json:"lease_break_flag"`
}
