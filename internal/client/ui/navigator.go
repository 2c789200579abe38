// Package ui is the terminal front end: a bubbletea program whose root
// model routes between the sign-in views and the role dashboards.
package ui

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aussiebroadwan/leavedesk/internal/client/flow"
	"github.com/aussiebroadwan/leavedesk/internal/client/guard"
	"github.com/aussiebroadwan/leavedesk/internal/client/session"
)

// Backend is everything the views need from the server.
type Backend interface {
	flow.Authenticator
	flow.OTPVerifier
	flow.PasswordSetter
}

// Deps are shared by every view.
type Deps struct {
	Backend      Backend
	Sessions     *session.Store
	Guard        *guard.Guard
	Slot         *flow.ChallengeSlot
	ResendWindow int
	Logger       *slog.Logger
}

// view is one screen. Views are created on navigation and closed when the
// navigator leaves them.
type view interface {
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	render() string
	close()
}

// Navigator is the root model. Every navigation goes through the route
// guard.
type Navigator struct {
	deps  Deps
	ctx   context.Context
	start string

	path    string
	current view
	seq     seq
	flash   string
	width   int
}

// NewNavigator returns a navigator that opens start on Init.
func NewNavigator(ctx context.Context, deps Deps, start string) *Navigator {
	if deps.Guard == nil {
		deps.Guard = guard.New(nil)
	}
	if deps.Slot == nil {
		deps.Slot = flow.NewChallengeSlot(0)
	}
	if start == "" {
		start = guard.PathLogin
	}
	return &Navigator{deps: deps, ctx: ctx, start: start}
}

// Path is the route currently shown.
func (n *Navigator) Path() string { return n.path }

func (n *Navigator) Init() tea.Cmd {
	return n.navigate(n.start, "")
}

func (n *Navigator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			n.closeCurrent()
			return n, tea.Quit
		}
	case tea.WindowSizeMsg:
		n.width = msg.Width
		return n, nil
	case navigateMsg:
		return n, n.navigate(msg.path, msg.flash)
	case RecheckMsg:
		if n.current == nil {
			return n, nil
		}
		if dec := n.deps.Guard.Check(n.deps.Sessions.Snapshot(), n.path); dec.Outcome != guard.Allow {
			return n, n.navigate(n.path, "")
		}
		return n, nil
	case scoped:
		if msg.viewSeq() != int(n.seq) {
			return n, nil
		}
	}

	if n.current == nil {
		return n, nil
	}
	return n, n.current.update(msg)
}

func (n *Navigator) View() string {
	if n.current == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(n.current.render())
	if n.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(warnStyle.Render(n.flash))
	}
	b.WriteString(helpStyle.Render("\nctrl+c quit"))

	out := frameStyle.Render(b.String())
	if n.width > 0 {
		out = lipgloss.PlaceHorizontal(n.width, lipgloss.Center, out)
	}
	return out
}

// navigate resolves path through the guard and swaps the current view.
func (n *Navigator) navigate(path, flash string) tea.Cmd {
	dec := n.deps.Guard.Check(n.deps.Sessions.Snapshot(), path)
	if dec.Outcome != guard.Allow {
		n.deps.Logger.Info("navigation redirected", "requested", path, "outcome", dec.Outcome, "location", dec.Location)
	}
	path = dec.Location

	n.closeCurrent()
	n.seq++
	n.path = path
	n.flash = flash
	n.current = n.build(path)
	return n.current.init()
}

func (n *Navigator) build(path string) view {
	route, params, ok := guard.MatchRoute(path)
	if !ok {
		return newDashboardView(n, path)
	}

	switch route.Pattern {
	case guard.PathLogin, guard.PathLogin + "/:" + guard.ParamSubjectID:
		return newLoginView(n, params[guard.ParamSubjectID])
	case guard.PathOTP, guard.PathOTP + "/:" + guard.ParamSubjectID:
		return newOTPView(n)
	case guard.PathSetPassword:
		return newPasswordView(n)
	case guard.PathUnauthorized:
		return newUnauthorizedView(n)
	default:
		return newDashboardView(n, path)
	}
}

func (n *Navigator) closeCurrent() {
	if n.current != nil {
		n.current.close()
		n.current = nil
	}
}

// clearFlash drops the one-shot message once the user starts typing.
func (n *Navigator) clearFlash() { n.flash = "" }

// logout clears the session and returns to the login view.
func (n *Navigator) logout(s seq) tea.Cmd {
	return func() tea.Msg {
		return logoutDoneMsg{seq: s, err: n.deps.Sessions.Clear(n.ctx)}
	}
}
