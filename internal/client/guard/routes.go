package guard

import (
	"path"
	"strings"

	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
)

// Logical routes of the client.
const (
	PathLogin          = "/login"
	PathOTP            = "/otp"
	PathSetPassword    = "/set-password"
	PathUnauthorized   = "/unauthorized"
	PathSuperAdminHome = "/superadmin/dashboard"
	PathAdminHome      = "/admin/dashboard"
	PathFacultyHome    = "/faculty/dashboard"
	PathFacultyApply   = "/faculty/apply-leave"

	ParamSubjectID = "subjectId"
)

// Route is one entry of the navigation surface.
type Route struct {
	Pattern string
	Public  bool
}

var routes = []Route{
	{Pattern: "/login", Public: true},
	{Pattern: "/login/:subjectId", Public: true},
	{Pattern: "/otp", Public: true},
	{Pattern: "/otp/:subjectId", Public: true},
	{Pattern: PathSetPassword, Public: true},
	{Pattern: PathUnauthorized, Public: true},
	{Pattern: PathSuperAdminHome},
	{Pattern: PathAdminHome},
	{Pattern: PathFacultyHome},
	{Pattern: PathFacultyApply},
}

// Routes returns the known routes in match order.
func Routes() []Route {
	return append([]Route(nil), routes...)
}

// Clean returns the canonical form of p: rooted, with duplicate slashes,
// dot segments and any trailing slash removed.
func Clean(p string) string {
	return path.Clean("/" + p)
}

// MatchRoute finds the route for path and extracts its parameters.
func MatchRoute(path string) (Route, map[string]string, bool) {
	segs := split(path)
	for _, r := range routes {
		if params, ok := match(split(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}

	params := map[string]string{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if segs[i] == "" {
				return nil, false
			}
			params[name] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// HomeFor is where a freshly verified user lands.
func HomeFor(role domain.Role) string {
	switch role {
	case domain.RoleSuperAdmin:
		return PathSuperAdminHome
	case domain.RoleAdmin:
		return PathAdminHome
	case domain.RoleFaculty:
		return PathFacultyHome
	default:
		return PathUnauthorized
	}
}
