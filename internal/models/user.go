package models

// User is an account of the user directory.
type User struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ID        int64  `json:"id"`
	IsAdmin   bool   `json:"is_admin"`
	IsTenant  bool   `json:"is_tenant"`
	IsActive  bool   `json:"is_active"`
}
