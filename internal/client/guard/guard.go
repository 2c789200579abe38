// Package guard decides whether a navigation may proceed. It only reads the
// session it is given and never mutates it.
package guard

import (
	"slices"
	"strings"

	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
)

type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "unknown"
	}
}

// Decision is the result of a guard check. ReturnTo is advisory: it is the
// path that was asked for when the user had no session.
type Decision struct {
	Outcome  Outcome
	Location string
	ReturnTo string
}

// Decide is the guard rule. A nil required list admits any signed in role.
func Decide(sess *domain.Session, required []domain.Role, requested string) Decision {
	if sess == nil {
		return Decision{Outcome: RedirectLogin, Location: PathLogin, ReturnTo: requested}
	}
	if len(required) == 0 || slices.Contains(required, sess.Identity.Role()) {
		return Decision{Outcome: Allow, Location: requested}
	}
	return Decision{Outcome: RedirectUnauthorized, Location: PathUnauthorized}
}

// Policy maps each role to the route prefixes it may open.
type Policy map[domain.Role][]string

// DefaultPolicy gives every role its own area.
func DefaultPolicy() Policy {
	return Policy{
		domain.RoleSuperAdmin: {"/superadmin"},
		domain.RoleAdmin:      {"/admin"},
		domain.RoleFaculty:    {"/faculty"},
	}
}

// RequiredRoles lists the roles allowed on path, in a stable order. Paths
// under no prefix return nil.
func (p Policy) RequiredRoles(path string) []domain.Role {
	path = Clean(path)
	var out []domain.Role
	for role, prefixes := range p {
		for _, prefix := range prefixes {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				out = append(out, role)
				break
			}
		}
	}
	slices.Sort(out)
	return out
}

// Guard applies a Policy to the route table.
type Guard struct {
	policy Policy
}

func New(policy Policy) *Guard {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Guard{policy: policy}
}

// Check decides a navigation to path. Public routes need no session;
// unknown routes are protected without a role requirement. The path is
// cleaned first and an allowed Decision carries the cleaned form.
func (g *Guard) Check(sess *domain.Session, path string) Decision {
	path = Clean(path)
	if r, _, ok := MatchRoute(path); ok && r.Public {
		return Decision{Outcome: Allow, Location: path}
	}
	return Decide(sess, g.policy.RequiredRoles(path), path)
}
