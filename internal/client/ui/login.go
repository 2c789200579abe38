package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aussiebroadwan/leavedesk/internal/client/flow"
	"github.com/aussiebroadwan/leavedesk/internal/client/guard"
)

type loginView struct {
	nav     *Navigator
	seq     seq
	flow    *flow.CredentialFlow
	inputs  []textinput.Model
	focus   int
	spinner spinner.Model
	busy    bool
	errMsg  string
}

func newLoginView(n *Navigator, subjectID string) *loginView {
	mobile := textinput.New()
	mobile.Prompt = ""
	mobile.Placeholder = "Mobile number"
	mobile.CharLimit = 15

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = okStyle

	f := flow.NewCredentialFlow(n.deps.Backend, n.deps.Slot, n.deps.Logger)
	if subjectID != "" {
		f.SetSubjectID(subjectID)
	}

	return &loginView{
		nav:     n,
		seq:     n.seq,
		flow:    f,
		inputs:  []textinput.Model{mobile, password},
		spinner: sp,
	}
}

func (v *loginView) init() tea.Cmd {
	return v.inputs[0].Focus()
}

func (v *loginView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginDoneMsg:
		if errors.Is(msg.err, flow.ErrClosed) || errors.Is(msg.err, flow.ErrBusy) {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			v.errMsg = displayError(msg.err)
			return nil
		}
		return navigate(guard.PathOTP+"/"+msg.handle.SubjectID, "")

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
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	v.flow.SetFields(strings.TrimSpace(v.inputs[0].Value()), v.inputs[1].Value())
	if _, ok := msg.(tea.KeyMsg); ok {
		v.errMsg = ""
	}
	return cmd
}

func (v *loginView) setFocus(i int) tea.Cmd {
	i = (i + len(v.inputs)) % len(v.inputs)
	v.inputs[v.focus].Blur()
	v.focus = i
	return v.inputs[i].Focus()
}

func (v *loginView) submit() tea.Cmd {
	if v.busy {
		return nil
	}
	v.flow.SetFields(strings.TrimSpace(v.inputs[0].Value()), v.inputs[1].Value())
	v.busy = true
	v.errMsg = ""

	f, s, ctx := v.flow, v.seq, v.nav.ctx
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		h, err := f.Submit(ctx)
		return loginDoneMsg{seq: s, handle: h, err: err}
	})
}

func (v *loginView) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("LeaveDesk sign in"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Mobile number") + v.inputs[0].View() + "\n")
	b.WriteString(labelStyle.Render("Password") + v.inputs[1].View() + "\n")

	switch {
	case v.busy:
		b.WriteString("\n" + v.spinner.View() + " Signing in...")
	case v.errMsg != "":
		b.WriteString("\n" + errorStyle.Render(v.errMsg))
	}

	b.WriteString(helpStyle.Render("\ntab switch field • enter sign in"))
	return b.String()
}

func (v *loginView) close() { v.flow.Close() }

// displayError is the user facing text of a flow error.
func displayError(err error) string {
	var fe *flow.FlowError
	if errors.As(err, &fe) {
		return fe.Display()
	}
	var ve *flow.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
