package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
	"github.com/aussiebroadwan/leavedesk/internal/client/flow"
)

// scoped messages belong to one view instance; the navigator drops them
// once that view is gone.
type scoped interface {
	viewSeq() int
}

type seq int

func (s seq) viewSeq() int { return int(s) }

type loginDoneMsg struct {
	seq
	handle domain.ChallengeHandle
	err    error
}

type verifyDoneMsg struct {
	seq
	result flow.Result
	err    error
}

type resendDoneMsg struct {
	seq
	err error
}

type passwordDoneMsg struct {
	seq
	result flow.PasswordResult
	err    error
}

type logoutDoneMsg struct {
	seq
	err error
}

type tickMsg struct {
	seq
}

// RecheckMsg makes the navigator run the guard again for the current route.
// Send it when the session changes outside the views.
type RecheckMsg struct{}

// navigateMsg asks the navigator to open path. flash is shown once on the
// next view.
type navigateMsg struct {
	path  string
	flash string
}

func navigate(path, flash string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path, flash: flash} }
}

func tick(s seq) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{seq: s} })
}
