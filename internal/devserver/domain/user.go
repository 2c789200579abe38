package domain

// User is an employee known to the dev backend.
type User struct {
	EmployeeID   string
	MobileNumber string
	Name         string
	Role         string
	AdminID      string // set for FACULTY
	SuperAdminID string // set for ADMIN
	PasswordHash string // argon2 encoded
	FirstLogin   bool   // cleared once a password is set
}
