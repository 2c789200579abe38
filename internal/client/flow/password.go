package flow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/leavedesk/internal/client/guard"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
)

// MinPasswordLength is enforced before anything is sent.
const MinPasswordLength = 8

var strengthLabels = [...]string{"Weak", "Fair", "Good", "Strong", "Very Strong"}

// Strength scores pwd from 0 to 5: one point each for length 8+, length
// 12+, mixed case, a digit, and a symbol.
func Strength(pwd string) int {
	var lower, upper, digit, symbol bool
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}

	n := len([]rune(pwd))
	score := 0
	for _, ok := range []bool{n >= 8, n >= 12, lower && upper, digit, symbol} {
		if ok {
			score++
		}
	}
	return score
}

// StrengthLabel names a score from Strength; 0 has no label.
func StrengthLabel(score int) string {
	if score < 1 || score > len(strengthLabels) {
		return ""
	}
	return strengthLabels[score-1]
}

// ValidatePassword checks the form locally.
func ValidatePassword(password, confirm string) error {
	switch {
	case password == "" || confirm == "":
		return &ValidationError{Field: "password", Message: MsgFieldsRequired}
	case len([]rune(password)) < MinPasswordLength:
		return &ValidationError{Field: "password", Message: MsgPasswordTooShort}
	case password != confirm:
		return &ValidationError{Field: "confirm", Message: MsgPasswordMismatch}
	}
	return nil
}

// PasswordResult is returned after the password is stored.
type PasswordResult struct {
	Message     string
	Destination string
}

// PasswordFlow sets the password of a first-login employee.
type PasswordFlow struct {
	setter     PasswordSetter
	employeeID string
	log        *slog.Logger
	lifetime

	mu     sync.Mutex
	busy   bool
	closed bool
}

func NewPasswordFlow(setter PasswordSetter, employeeID string, log *slog.Logger) *PasswordFlow {
	return &PasswordFlow{
		setter:     setter,
		employeeID: employeeID,
		log:        log.With("component", "password_flow"),
		lifetime:   newLifetime(),
	}
}

// Submit validates and sends the new password.
func (f *PasswordFlow) Submit(ctx context.Context, password, confirm string) (PasswordResult, error) {
	if err := ValidatePassword(password, confirm); err != nil {
		return PasswordResult{}, err
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return PasswordResult{}, ErrClosed
	}
	if f.busy {
		f.mu.Unlock()
		return PasswordResult{}, ErrBusy
	}
	f.busy = true
	f.mu.Unlock()

	reqCtx, done := f.bind(ctx)
	defer done()

	_, err := f.setter.SetPassword(reqCtx, authsdk.SetPasswordRequest{EmpID: f.employeeID, Password: password})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if f.closed {
		return PasswordResult{}, ErrClosed
	}
	if err != nil {
		fe := classify(err, MsgSetPasswordFail, false)
		f.log.Warn("set password failed", "kind", fe.Kind, "err", err)
		return PasswordResult{}, fe
	}

	f.log.Info("password set", "employee_id", f.employeeID)
	return PasswordResult{Message: MsgPasswordSet, Destination: guard.PathLogin}, nil
}

func (f *PasswordFlow) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cancel()
}
