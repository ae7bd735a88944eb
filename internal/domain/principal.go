package domain

// Principal is the acting identity of a request.
type Principal struct {
	UserID   int64
	IsAdmin  bool
	IsActive bool
}

// OperationKind distinguishes the create and update paths of validators.
type OperationKind int

const (
	OperationCreate OperationKind = iota
	OperationUpdate
)

func (k OperationKind) String() string {
	switch k {
	case OperationCreate:
		return "create"
	case OperationUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// RequireAdmin fails with PermissionError unless the principal is an active
// administrator.
func RequireAdmin(p Principal) error {
	if !p.IsActive || !p.IsAdmin {
		return &PermissionError{Message: "administrator privileges are required"}
	}
	return nil
}

// RequireActive fails with PermissionError unless the principal is active.
func RequireActive(p Principal) error {
	if !p.IsActive {
		return &PermissionError{Message: "an active user account is required"}
	}
	return nil
}
