package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"

	"github.com/aussiebroadwan/leavedesk/internal/devserver/domain"
	"github.com/aussiebroadwan/leavedesk/pkg/idx"
	"github.com/aussiebroadwan/leavedesk/pkg/jwtx"
	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
)

const (
	// MaxOTPAttempts is the number of wrong codes a challenge survives.
	MaxOTPAttempts = 5
	// MinPasswordLength matches the client side check.
	MinPasswordLength = 8
)

var (
	ErrChallengeExpired = errors.New("otp challenge expired")
	ErrInvalidOTP       = errors.New("invalid otp")
	ErrTooManyAttempts  = errors.New("too many otp attempts")
	ErrWeakPassword     = errors.New("password too short")
)

var hotpOpts = hotp.ValidateOpts{
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// LoginResult is handed to the client after the credential step.
type LoginResult struct {
	ChallengeToken string
	EmployeeID     string
}

// VerifyResult is the signed session and the user it belongs to.
type VerifyResult struct {
	Token string
	User  domain.User
}

// AuthService runs the two step sign-in of the dev backend.
type AuthService struct {
	Users      *UserDirectory
	Challenges *ChallengeStore
	Notifier   Notifier
	Signer     jwtx.Signer
	Issuer     string

	ChallengeTTL time.Duration
	SessionTTL   time.Duration

	// FixedCode replaces the generated code when set.
	FixedCode string

	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) challengeTTL() time.Duration {
	if s.ChallengeTTL > 0 {
		return s.ChallengeTTL
	}
	return jwtx.DefaultChallengeTTL
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

// Login checks the credentials, opens a challenge and sends its first code.
func (s *AuthService) Login(ctx context.Context, mobileNumber, password, employeeID string) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	user, err := s.Users.Authenticate(mobileNumber, password, employeeID)
	if err != nil {
		return LoginResult{}, err
	}

	key, err := hotp.Generate(hotp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.EmployeeID,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to generate HOTP secret: %w", err)
	}

	ch := domain.Challenge{
		ID:         idx.NewAt(now).String(),
		EmployeeID: user.EmployeeID,
		Secret:     key.Secret(),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.challengeTTL()),
	}

	token, err := s.Signer.Sign(jwtx.NewChallengeClaims(ch.ID, user.EmployeeID, s.Issuer, s.challengeTTL(), now))
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to sign challenge token: %w", err)
	}

	if err := s.deliver(ctx, user, ch); err != nil {
		return LoginResult{}, err
	}
	s.Challenges.Put(ch)

	l.Info("otp challenge issued", "employee_id", user.EmployeeID, "challenge_id", ch.ID)
	return LoginResult{ChallengeToken: token, EmployeeID: user.EmployeeID}, nil
}

// Verify checks code against the challenge named by claims. The challenge is
// consumed on success and burned after MaxOTPAttempts wrong codes.
func (s *AuthService) Verify(ctx context.Context, claims jwtx.Claims, code, employeeID string) (VerifyResult, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	ch, ok := s.Challenges.Get(claims.ChallengeID)
	if !ok || ch.Expired(now) {
		s.Challenges.Delete(claims.ChallengeID)
		return VerifyResult{}, ErrChallengeExpired
	}
	if ch.EmployeeID != claims.Subject || (employeeID != "" && employeeID != ch.EmployeeID) {
		return VerifyResult{}, ErrInvalidOTP
	}

	if !s.validate(code, ch) {
		updated, _ := s.Challenges.Update(ch.ID, func(c *domain.Challenge) bool {
			c.Attempts++
			return c.Attempts < MaxOTPAttempts
		})
		l.Warn("otp validation failed", "challenge_id", ch.ID, "attempts", updated.Attempts)
		if updated.Attempts >= MaxOTPAttempts {
			return VerifyResult{}, ErrTooManyAttempts
		}
		return VerifyResult{}, ErrInvalidOTP
	}
	s.Challenges.Delete(ch.ID)

	user, err := s.Users.Get(ch.EmployeeID)
	if err != nil {
		return VerifyResult{}, err
	}

	sc := jwtx.NewSessionClaims(user.EmployeeID, user.Role, s.Issuer, s.sessionTTL(), now)
	sc.DisplayName = user.Name
	sc.AdminID = user.AdminID
	sc.SuperAdminID = user.SuperAdminID
	sc.FirstLogin = user.FirstLogin

	token, err := s.Signer.Sign(sc)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	l.Info("otp verified", "employee_id", user.EmployeeID, "role", user.Role)
	return VerifyResult{Token: token, User: user}, nil
}

// Resend moves the challenge to the next HOTP counter and delivers the new
// code. Earlier codes stop working.
func (s *AuthService) Resend(ctx context.Context, claims jwtx.Claims) error {
	now := s.now()

	ch, ok := s.Challenges.Update(claims.ChallengeID, func(c *domain.Challenge) bool {
		if c.Expired(now) {
			return false
		}
		c.Counter++
		return true
	})
	if !ok || ch.Expired(now) {
		return ErrChallengeExpired
	}

	user, err := s.Users.Get(ch.EmployeeID)
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("otp resent", "employee_id", user.EmployeeID, "counter", ch.Counter)
	return s.deliver(ctx, user, ch)
}

// SetPassword stores a new password for a first-login employee.
func (s *AuthService) SetPassword(ctx context.Context, employeeID, password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	if err := s.Users.SetPassword(employeeID, password); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("password set", "employee_id", employeeID)
	return nil
}

// PurgeExpired drops stale challenges.
func (s *AuthService) PurgeExpired() int {
	return s.Challenges.DeleteExpired(s.now())
}

func (s *AuthService) code(ch domain.Challenge) (string, error) {
	if s.FixedCode != "" {
		return s.FixedCode, nil
	}
	return hotp.GenerateCodeCustom(ch.Secret, ch.Counter, hotpOpts)
}

func (s *AuthService) validate(code string, ch domain.Challenge) bool {
	if s.FixedCode != "" {
		return code == s.FixedCode
	}
	ok, err := hotp.ValidateCustom(code, ch.Counter, ch.Secret, hotpOpts)
	return err == nil && ok
}

func (s *AuthService) deliver(ctx context.Context, user domain.User, ch domain.Challenge) error {
	code, err := s.code(ch)
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}
	if err := s.Notifier.Deliver(ctx, user, code); err != nil {
		return fmt.Errorf("failed to deliver otp: %w", err)
	}
	return nil
}
