package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
	"github.com/aussiebroadwan/leavedesk/internal/client/guard"
)

const msgSignedOut = "You have been signed out."

// dashboardView is the landing page of a role, or a not found page for
// paths the client does not know.
type dashboardView struct {
	nav      *Navigator
	seq      seq
	path     string
	sess     domain.Session
	signedIn bool
	leaving  bool
}

func newDashboardView(n *Navigator, path string) *dashboardView {
	sess, ok := n.deps.Sessions.Current()
	return &dashboardView{nav: n, seq: n.seq, path: path, sess: sess, signedIn: ok}
}

func (v *dashboardView) init() tea.Cmd { return nil }

func (v *dashboardView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case logoutDoneMsg:
		flash := msgSignedOut
		if msg.err != nil {
			v.nav.deps.Logger.Warn("logout", "err", msg.err)
			flash = "Signed out, but this device could not be cleared."
		}
		return navigate(guard.PathLogin, flash)

	case tea.KeyMsg:
		v.nav.clearFlash()
		switch msg.String() {
		case "ctrl+l":
			if v.leaving || !v.signedIn {
				return nil
			}
			v.leaving = true
			return v.nav.logout(v.seq)
		case "a":
			if v.sess.Identity.Role() == domain.RoleFaculty && v.path != guard.PathFacultyApply {
				return navigate(guard.PathFacultyApply, "")
			}
		case "h", "esc":
			if v.signedIn {
				if home := guard.HomeFor(v.sess.Identity.Role()); home != v.path {
					return navigate(home, "")
				}
			}
		}
	}
	return nil
}

func (v *dashboardView) render() string {
	var b strings.Builder
	id := v.sess.Identity

	switch v.path {
	case guard.PathSuperAdminHome:
		b.WriteString(titleStyle.Render("Super admin dashboard"))
	case guard.PathAdminHome:
		b.WriteString(titleStyle.Render("Admin dashboard"))
	case guard.PathFacultyHome:
		b.WriteString(titleStyle.Render("Faculty dashboard"))
	case guard.PathFacultyApply:
		b.WriteString(titleStyle.Render("Apply for leave"))
		b.WriteString("\n")
		b.WriteString("Leave applications are not available in the terminal client yet.\n")
	default:
		b.WriteString(titleStyle.Render("Page not found"))
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(v.path) + "\n")
	}

	if v.signedIn {
		b.WriteString("\n")
		name := id.DisplayName
		if name == "" {
			name = id.EmployeeID
		}
		b.WriteString(labelStyle.Render("Signed in as") + name + "\n")
		b.WriteString(labelStyle.Render("Employee ID") + id.EmployeeID + "\n")
		b.WriteString(labelStyle.Render("Role") + id.Role().String() + "\n")
		if adminID := id.AdminID(); adminID != "" {
			b.WriteString(labelStyle.Render("Reports to") + adminID + "\n")
		}
		if superID := id.SuperAdminID(); superID != "" {
			b.WriteString(labelStyle.Render("Reports to") + superID + "\n")
		}
	}

	help := []string{}
	if id.Role() == domain.RoleFaculty && v.path != guard.PathFacultyApply {
		help = append(help, "a apply leave")
	}
	if v.signedIn {
		if guard.HomeFor(id.Role()) != v.path {
			help = append(help, "h home")
		}
		help = append(help, "ctrl+l sign out")
	}
	if len(help) > 0 {
		b.WriteString(helpStyle.Render("\n" + strings.Join(help, " • ")))
	}
	return b.String()
}

func (v *dashboardView) close() {}

type unauthorizedView struct {
	nav      *Navigator
	seq      seq
	signedIn bool
	leaving  bool
}

func newUnauthorizedView(n *Navigator) *unauthorizedView {
	return &unauthorizedView{nav: n, seq: n.seq, signedIn: n.deps.Sessions.IsAuthenticated()}
}

func (v *unauthorizedView) init() tea.Cmd { return nil }

func (v *unauthorizedView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case logoutDoneMsg:
		if msg.err != nil {
			v.nav.deps.Logger.Warn("logout", "err", msg.err)
		}
		return navigate(guard.PathLogin, msgSignedOut)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+l":
			if v.leaving || !v.signedIn {
				return nil
			}
			v.leaving = true
			return v.nav.logout(v.seq)
		case "enter", "esc":
			if !v.signedIn {
				return navigate(guard.PathLogin, "")
			}
		}
	}
	return nil
}

func (v *unauthorizedView) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Unauthorized"))
	b.WriteString("\n")
	b.WriteString(errorStyle.Render("You do not have access to this page."))
	if v.signedIn {
		b.WriteString(helpStyle.Render("\nctrl+l sign out"))
	} else {
		b.WriteString(helpStyle.Render("\nenter go to login"))
	}
	return b.String()
}

func (v *unauthorizedView) close() {}
