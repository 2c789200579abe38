package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/leavedesk/internal/devserver/domain"
)

// Notifier delivers a one-time code to a user. The real backend sends an
// SMS; the dev backend logs it.
type Notifier interface {
	Deliver(ctx context.Context, user domain.User, code string) error
}

// LogNotifier writes codes to the log. Never use it outside development.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Deliver(_ context.Context, user domain.User, code string) error {
	n.Logger.Info("otp delivered",
		"employee_id", user.EmployeeID,
		"mobile", maskMobile(user.MobileNumber),
		"code", code,
	)
	return nil
}

// MemoryNotifier records the last code per employee.
type MemoryNotifier struct {
	mu    sync.Mutex
	codes map[string]string
}

func (n *MemoryNotifier) Deliver(_ context.Context, user domain.User, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.codes == nil {
		n.codes = make(map[string]string)
	}
	n.codes[user.EmployeeID] = code
	return nil
}

// Last returns the most recent code sent to employeeID.
func (n *MemoryNotifier) Last(employeeID string) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	code, ok := n.codes[employeeID]
	return code, ok
}

func maskMobile(m string) string {
	if len(m) <= 4 {
		return "****"
	}
	return "******" + m[len(m)-4:]
}
