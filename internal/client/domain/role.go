package domain

// Role is the role string issued by the backend. Matching is case-sensitive.
type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleFaculty    Role = "FACULTY"
)

// Roles lists the known roles, highest first.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleFaculty}
}

// Known reports whether r is one of the roles the client has views for.
func (r Role) Known() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleFaculty:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
