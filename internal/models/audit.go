package models

import (
	"time"
)

// AuditStatus is the soft-delete state of a persisted record.
type AuditStatus string

const (
	AuditActive   AuditStatus = "active"
	AuditInactive AuditStatus = "inactive"
	AuditDeleted  AuditStatus = "deleted"
)

// AuditInfo is embedded in every persisted entity.
// Records are never physically deleted; Status is moved to deleted instead.
type AuditInfo struct {
	Status     AuditStatus `json:"audit_status"`
	CreatedAt  time.Time   `json:"created_at"`
	CreatedBy  *int64      `json:"created_by,omitempty"`
	ModifiedAt time.Time   `json:"modified_at"`
	ModifiedBy *int64      `json:"modified_by,omitempty"`
}

// NewAuditInfo returns active audit fields stamped with the acting user.
func NewAuditInfo(actor int64, now time.Time) AuditInfo {
	var by *int64
	if actor != 0 {
		id := actor
		by = &id
	}
	return AuditInfo{
		Status:     AuditActive,
		CreatedAt:  now,
		CreatedBy:  by,
		ModifiedAt: now,
		ModifiedBy: by,
	}
}

// Touch records a modification by the acting user.
func (a *AuditInfo) Touch(actor int64, now time.Time) {
	a.ModifiedAt = now
	if actor != 0 {
		id := actor
		a.ModifiedBy = &id
	}
}
