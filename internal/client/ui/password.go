package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aussiebroadwan/leavedesk/internal/client/flow"
	"github.com/aussiebroadwan/leavedesk/internal/client/guard"
)

type passwordView struct {
	nav     *Navigator
	seq     seq
	flow    *flow.PasswordFlow
	inputs  []textinput.Model
	focus   int
	spinner spinner.Model
	busy    bool
	errMsg  string
}

func newPasswordView(n *Navigator) view {
	sess, ok := n.deps.Sessions.Current()
	if !ok || !sess.Identity.FirstLogin {
		return newRedirectView(guard.PathLogin, "")
	}

	inputs := make([]textinput.Model, 2)
	for i, ph := range []string{"New password", "Confirm password"} {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = ph
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
		in.CharLimit = 128
		inputs[i] = in
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = okStyle

	return &passwordView{
		nav:     n,
		seq:     n.seq,
		flow:    flow.NewPasswordFlow(n.deps.Backend, sess.Identity.EmployeeID, n.deps.Logger),
		inputs:  inputs,
		spinner: sp,
	}
}

func (v *passwordView) init() tea.Cmd {
	return v.inputs[0].Focus()
}

func (v *passwordView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case passwordDoneMsg:
		if errors.Is(msg.err, flow.ErrClosed) || errors.Is(msg.err, flow.ErrBusy) {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.errMsg = displayError(msg.err)
			return nil
		}
		// The first login session only unlocks this screen. Sign in again
		// with the new password.
		if err := v.nav.deps.Sessions.Clear(v.nav.ctx); err != nil {
			v.nav.deps.Logger.Warn("clear session after password set", "err", err)
		}
		return navigate(msg.result.Destination, msg.result.Message)

	case spinner.TickMsg:
		if !v.busy {
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyTab, tea.KeyDown:
			return v.setFocus(v.focus + 1)
		case tea.KeyShiftTab, tea.KeyUp:
			return v.setFocus(v.focus - 1)
		case tea.KeyEnter:
			if v.focus == 0 {
				return v.setFocus(1)
			}
			return v.submit()
		}
		v.nav.clearFlash()
		v.errMsg = ""
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return cmd
}

func (v *passwordView) setFocus(i int) tea.Cmd {
	i = (i + len(v.inputs)) % len(v.inputs)
	v.inputs[v.focus].Blur()
	v.focus = i
	return v.inputs[i].Focus()
}

func (v *passwordView) submit() tea.Cmd {
	if v.busy {
		return nil
	}
	password, confirm := v.inputs[0].Value(), v.inputs[1].Value()
	if err := flow.ValidatePassword(password, confirm); err != nil {
		v.errMsg = displayError(err)
		return nil
	}
	v.busy = true
	v.errMsg = ""

	f, s, ctx := v.flow, v.seq, v.nav.ctx
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		res, err := f.Submit(ctx, password, confirm)
		return passwordDoneMsg{seq: s, result: res, err: err}
	})
}

func (v *passwordView) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Set your password"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("New password") + v.inputs[0].View() + "\n")
	b.WriteString(labelStyle.Render("Confirm password") + v.inputs[1].View() + "\n")

	if pwd := v.inputs[0].Value(); pwd != "" {
		score := flow.Strength(pwd)
		bar := strings.Repeat("■", score) + strings.Repeat("□", len(strengthColors)-score)
		color := strengthColors[max(score-1, 0)]
		b.WriteString(labelStyle.Render("Strength"))
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(bar + " " + flow.StrengthLabel(score)))
		b.WriteString("\n")
	}

	switch {
	case v.busy:
		b.WriteString("\n" + v.spinner.View() + " Saving...")
	case v.errMsg != "":
		b.WriteString("\n" + errorStyle.Render(v.errMsg))
	}

	b.WriteString(helpStyle.Render("\ntab switch field • enter save"))
	return b.String()
}

func (v *passwordView) close() { v.flow.Close() }

// redirectView is a placeholder that immediately sends the user elsewhere.
type redirectView struct {
	path, flash string
}

func newRedirectView(path, flash string) *redirectView {
	return &redirectView{path: path, flash: flash}
}

func (v *redirectView) init() tea.Cmd          { return navigate(v.path, v.flash) }
func (v *redirectView) update(tea.Msg) tea.Cmd { return nil }
func (v *redirectView) render() string         { return "" }
func (v *redirectView) close()                 {}
