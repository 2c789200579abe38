package domain

import (
	"encoding/json"
	"errors"
)

var ErrMissingRole = errors.New("identity has no role")

// Profile is the role specific part of an Identity. The set of variants is
// closed: SuperAdminProfile, AdminProfile, FacultyProfile, OtherProfile.
type Profile interface {
	Role() Role
	profile()
}

type SuperAdminProfile struct{}

// AdminProfile belongs to an ADMIN, who reports to a super admin.
type AdminProfile struct {
	SuperAdminID string
}

// FacultyProfile belongs to a FACULTY member, who reports to an admin.
type FacultyProfile struct {
	AdminID string
}

// OtherProfile keeps a role string the client does not recognise.
type OtherProfile struct {
	Name string
}

func (SuperAdminProfile) Role() Role { return RoleSuperAdmin }
func (AdminProfile) Role() Role      { return RoleAdmin }
func (FacultyProfile) Role() Role    { return RoleFaculty }
func (p OtherProfile) Role() Role    { return Role(p.Name) }

func (SuperAdminProfile) profile() {}
func (AdminProfile) profile()      {}
func (FacultyProfile) profile()    {}
func (OtherProfile) profile()      {}

// Identity is who the session belongs to.
type Identity struct {
	EmployeeID  string
	DisplayName string
	FirstLogin  bool
	Profile     Profile
}

// NewProfile picks the variant for role. Hierarchy ids that do not apply to
// the role are dropped.
func NewProfile(role Role, adminID, superAdminID string) Profile {
	switch role {
	case RoleSuperAdmin:
		return SuperAdminProfile{}
	case RoleAdmin:
		return AdminProfile{SuperAdminID: superAdminID}
	case RoleFaculty:
		return FacultyProfile{AdminID: adminID}
	default:
		return OtherProfile{Name: string(role)}
	}
}

// Role returns the role of the profile, or "" when there is none.
func (id Identity) Role() Role {
	if id.Profile == nil {
		return ""
	}
	return id.Profile.Role()
}

// AdminID is set for FACULTY only.
func (id Identity) AdminID() string {
	if p, ok := id.Profile.(FacultyProfile); ok {
		return p.AdminID
	}
	return ""
}

// SuperAdminID is set for ADMIN only.
func (id Identity) SuperAdminID() string {
	if p, ok := id.Profile.(AdminProfile); ok {
		return p.SuperAdminID
	}
	return ""
}

// Validate checks the identity can be stored.
func (id Identity) Validate() error {
	if id.Role() == "" {
		return ErrMissingRole
	}
	return nil
}

type identityJSON struct {
	Role         string `json:"role"`
	EmployeeID   string `json:"employeeId"`
	DisplayName  string `json:"displayName,omitempty"`
	AdminID      string `json:"adminId,omitempty"`
	SuperAdminID string `json:"superAdminId,omitempty"`
	FirstLogin   bool   `json:"firstLogin,omitempty"`
}

// MarshalJSON writes the flat stored form.
func (id Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(identityJSON{
		Role:         id.Role().String(),
		EmployeeID:   id.EmployeeID,
		DisplayName:  id.DisplayName,
		AdminID:      id.AdminID(),
		SuperAdminID: id.SuperAdminID(),
		FirstLogin:   id.FirstLogin,
	})
}

// UnmarshalJSON reads the flat stored form.
func (id *Identity) UnmarshalJSON(b []byte) error {
	var raw identityJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Role == "" {
		return ErrMissingRole
	}

	*id = Identity{
		EmployeeID:  raw.EmployeeID,
		DisplayName: raw.DisplayName,
		FirstLogin:  raw.FirstLogin,
		Profile:     NewProfile(Role(raw.Role), raw.AdminID, raw.SuperAdminID),
	}
	return nil
}
