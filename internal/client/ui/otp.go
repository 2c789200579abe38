package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aussiebroadwan/leavedesk/internal/client/countdown"
	"github.com/aussiebroadwan/leavedesk/internal/client/flow"
	"github.com/aussiebroadwan/leavedesk/internal/client/guard"
)

const (
	msgNotPersisted = "Signed in, but the session could not be saved on this device."
	msgSignInAgain  = "Press esc to sign in again."
)

type otpView struct {
	nav     *Navigator
	seq     seq
	flow    *flow.OTPFlow
	spinner spinner.Model
	busy    bool
	errMsg  string
	info    string
}

func newOTPView(n *Navigator) *otpView {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = okStyle

	timer := countdown.New(n.deps.ResendWindow, nil)
	return &otpView{
		nav:     n,
		seq:     n.seq,
		flow:    flow.NewOTPFlow(n.deps.Backend, n.deps.Sessions, n.deps.Slot, timer, n.deps.Logger),
		spinner: sp,
	}
}

func (v *otpView) init() tea.Cmd {
	v.flow.Activate()
	return tick(v.seq)
}

func (v *otpView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		v.flow.Timer().Tick()
		return tick(v.seq)

	case verifyDoneMsg:
		if errors.Is(msg.err, flow.ErrClosed) || errors.Is(msg.err, flow.ErrBusy) {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			return v.fail(msg.err)
		}
		flash := ""
		if msg.result.Warning != nil {
			flash = msgNotPersisted
		}
		if msg.result.SetPasswordRequired {
			return navigate(guard.PathSetPassword, flash)
		}
		return navigate(msg.result.Destination, flash)

	case resendDoneMsg:
		if errors.Is(msg.err, flow.ErrClosed) {
			return nil
		}
		v.busy = false
		if msg.err != nil {
			return v.fail(msg.err)
		}
		v.flow.Buffer().Reset()
		v.info = "A new OTP has been sent."
		return nil

	case spinner.TickMsg:
		if !v.busy {
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		return v.key(msg)
	}
	return nil
}

func (v *otpView) key(msg tea.KeyMsg) tea.Cmd {
	buf := v.flow.Buffer()
	v.nav.clearFlash()

	// Terminals deliver a paste as one message carrying every rune.
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 1 {
		if !buf.Paste(strings.TrimSpace(string(msg.Runes))) {
			v.errMsg = "Only digits can be pasted"
		} else {
			v.errMsg = ""
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return v.verify()
	case tea.KeyBackspace:
		buf.Backspace(buf.Focus())
	case tea.KeyLeft:
		buf.SetFocus(buf.Focus() - 1)
	case tea.KeyRight:
		buf.SetFocus(buf.Focus() + 1)
	case tea.KeyCtrlR:
		return v.resend()
	case tea.KeyEsc:
		return navigate(guard.PathLogin, "")
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			if buf.Input(buf.Focus(), string(msg.Runes)) {
				v.errMsg = ""
			}
		}
	}
	return nil
}

func (v *otpView) verify() tea.Cmd {
	if v.busy {
		return nil
	}
	if !v.flow.Buffer().Complete() {
		v.errMsg = flow.MsgIncompleteOTP
		return nil
	}
	v.busy = true
	v.errMsg, v.info = "", ""

	f, s, ctx := v.flow, v.seq, v.nav.ctx
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		res, err := f.Verify(ctx)
		return verifyDoneMsg{seq: s, result: res, err: err}
	})
}

func (v *otpView) resend() tea.Cmd {
	if v.busy || !v.flow.CanResend() {
		return nil
	}
	v.busy = true
	v.errMsg, v.info = "", ""

	f, s, ctx := v.flow, v.seq, v.nav.ctx
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		return resendDoneMsg{seq: s, err: f.Resend(ctx)}
	})
}

// fail shows err. An expired challenge stays on screen until the user
// leaves with esc.
func (v *otpView) fail(err error) tea.Cmd {
	v.errMsg = displayError(err)
	if flow.IsKind(err, flow.KindExpired) {
		v.errMsg += " " + msgSignInAgain
	}
	return nil
}

func (v *otpView) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Verify OTP"))
	b.WriteString("\n")
	if subject, ok := v.flow.Subject(); ok && subject != "" {
		b.WriteString(fmt.Sprintf("Enter the code sent for %s\n\n", subject))
	}

	buf := v.flow.Buffer()
	digits, focus := buf.Digits(), buf.Focus()
	cells := make([]string, len(digits))
	for i, d := range digits {
		style := cellStyle
		if i == focus {
			style = focusedCellStyle
		}
		if d == "" {
			d = " "
		}
		cells[i] = style.Render(d)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	b.WriteString("\n")

	if st := v.flow.Timer().State(); st.Expired {
		b.WriteString(okStyle.Render("ctrl+r resend OTP"))
	} else {
		b.WriteString(helpStyle.UnsetMarginTop().Render(fmt.Sprintf("Resend OTP in %ds", st.Remaining)))
	}

	switch {
	case v.busy:
		b.WriteString("\n\n" + v.spinner.View() + " Please wait...")
	case v.errMsg != "":
		b.WriteString("\n\n" + errorStyle.Render(v.errMsg))
	case v.info != "":
		b.WriteString("\n\n" + okStyle.Render(v.info))
	}

	b.WriteString(helpStyle.Render("\ndigits type • ←/→ move • paste fills • enter verify • esc back"))
	return b.String()
}

func (v *otpView) close() { v.flow.Close() }
