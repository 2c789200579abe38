package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/aussiebroadwan/leavedesk/internal/devserver/domain"
	"github.com/aussiebroadwan/leavedesk/pkg/cryptox"
)

var (
	ErrInvalidCredentials = errors.New("invalid mobile number or password")
	ErrUnknownUser        = errors.New("unknown employee")
	ErrPasswordAlreadySet = errors.New("password already set")
)

// UserRecord is one entry of the users fixture. Passwords are plain text in
// the fixture and hashed on load.
type UserRecord struct {
	EmployeeID   string `toml:"employee_id"`
	MobileNumber string `toml:"mobile_number"`
	Name         string `toml:"name"`
	Role         string `toml:"role"`
	AdminID      string `toml:"admin_id"`
	SuperAdminID string `toml:"super_admin_id"`
	Password     string `toml:"password"`
	FirstLogin   bool   `toml:"first_login"`
}

type usersFile struct {
	Users []UserRecord `toml:"users"`
}

// DefaultUsers is the built-in directory: one user per role plus a faculty
// member that still has to set a password.
func DefaultUsers() []UserRecord {
	return []UserRecord{
		{EmployeeID: "SA001", MobileNumber: "9000000001", Name: "Sita Raman", Role: "SUPERADMIN", Password: "superadmin123"},
		{EmployeeID: "ADM1", MobileNumber: "9000000002", Name: "Arjun Mehta", Role: "ADMIN", SuperAdminID: "SA001", Password: "admin1234"},
		{EmployeeID: "EMP001", MobileNumber: "9876543210", Name: "Priya Nair", Role: "FACULTY", AdminID: "ADM1", Password: "faculty123"},
		{EmployeeID: "EMP002", MobileNumber: "9876543211", Name: "Kiran Rao", Role: "FACULTY", AdminID: "ADM1", Password: "welcome123", FirstLogin: true},
	}
}

// LoadUsersFile reads a TOML fixture of [[users]] tables.
func LoadUsersFile(path string) ([]UserRecord, error) {
	var f usersFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("failed to decode users file: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("users file %s has no users", path)
	}
	return f.Users, nil
}

// UserDirectory is the in-memory user table of the dev backend.
type UserDirectory struct {
	hasher *cryptox.Hasher

	mu       sync.RWMutex
	byID     map[string]*domain.User
	byMobile map[string]*domain.User
}

// NewUserDirectory hashes every record's password and indexes the users.
func NewUserDirectory(hasher *cryptox.Hasher, records []UserRecord) (*UserDirectory, error) {
	d := &UserDirectory{
		hasher:   hasher,
		byID:     make(map[string]*domain.User, len(records)),
		byMobile: make(map[string]*domain.User, len(records)),
	}

	for _, rec := range records {
		if rec.EmployeeID == "" || rec.MobileNumber == "" || rec.Password == "" {
			return nil, fmt.Errorf("user %q: employee_id, mobile_number and password are required", rec.EmployeeID)
		}
		if _, dup := d.byID[rec.EmployeeID]; dup {
			return nil, fmt.Errorf("user %q: duplicate employee_id", rec.EmployeeID)
		}
		if _, dup := d.byMobile[rec.MobileNumber]; dup {
			return nil, fmt.Errorf("user %q: duplicate mobile_number", rec.EmployeeID)
		}

		hash, err := hasher.Hash(rec.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %q: %w", rec.EmployeeID, err)
		}

		u := &domain.User{
			EmployeeID:   rec.EmployeeID,
			MobileNumber: rec.MobileNumber,
			Name:         rec.Name,
			Role:         rec.Role,
			AdminID:      rec.AdminID,
			SuperAdminID: rec.SuperAdminID,
			PasswordHash: hash,
			FirstLogin:   rec.FirstLogin,
		}
		d.byID[u.EmployeeID] = u
		d.byMobile[u.MobileNumber] = u
	}

	return d, nil
}

// Authenticate checks a mobile number and password. When employeeID is not
// empty it must match the user found.
func (d *UserDirectory) Authenticate(mobileNumber, password, employeeID string) (domain.User, error) {
	d.mu.RLock()
	u, ok := d.byMobile[mobileNumber]
	var user domain.User
	if ok {
		user = *u
	}
	d.mu.RUnlock()

	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := d.hasher.Verify(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if employeeID != "" && employeeID != user.EmployeeID {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (d *UserDirectory) Get(employeeID string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[employeeID]
	if !ok {
		return domain.User{}, ErrUnknownUser
	}
	return *u, nil
}

// SetPassword replaces the password of a first-login user.
func (d *UserDirectory) SetPassword(employeeID, password string) error {
	hash, err := d.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.byID[employeeID]
	if !ok {
		return ErrUnknownUser
	}
	if !u.FirstLogin {
		return ErrPasswordAlreadySet
	}
	u.PasswordHash = hash
	u.FirstLogin = false
	return nil
}
