package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/leavedesk/internal/devserver/service"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
	"github.com/aussiebroadwan/leavedesk/pkg/httpx"
	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
)

const maxBodyBytes = 1 << 20

// loginResponse uses the field names of the production backend.
type loginResponse struct {
	Token      string `json:"token"`
	EmployeeID string `json:"employeeId"`
}

// AuthHandler serves the sign-in endpoints.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleLogin handles POST /login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.MobileNumber = strings.TrimSpace(req.MobileNumber)
	if req.MobileNumber == "" || req.Password == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Mobile number and password are required")
		return
	}

	res, err := h.AuthService.Login(ctx, req.MobileNumber, req.Password, strings.TrimSpace(req.EmployeeID))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("login rejected")
			httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid mobile number or password")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{Token: res.ChallengeToken, EmployeeID: res.EmployeeID})
}

// HandleVerify handles POST /verify-otp?enteredOtp=. The challenge token is
// verified by RequireBearer.
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "invalid token")
		return
	}

	code := strings.TrimSpace(r.URL.Query().Get("enteredOtp"))
	if code == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Please enter complete OTP")
		return
	}

	res, err := h.AuthService.Verify(ctx, claims, code, strings.TrimSpace(r.URL.Query().Get("employeeId")))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeExpired):
			httpx.WriteMessage(w, http.StatusUnauthorized, "OTP session expired")
		case errors.Is(err, service.ErrTooManyAttempts):
			httpx.WriteMessage(w, http.StatusGone, "Too many attempts. Please login again.")
		case errors.Is(err, service.ErrInvalidOTP):
			httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid OTP")
		default:
			log.Error("otp verification failed", "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	u := res.User
	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyResponse{
		Token:        res.Token,
		Role:         u.Role,
		EmployeeID:   u.EmployeeID,
		DisplayName:  u.Name,
		AdminID:      u.AdminID,
		SuperAdminID: u.SuperAdminID,
		FirstLogin:   u.FirstLogin,
	})
}

// HandleResend handles POST /resend-otp.
func (h *AuthHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		httpx.WriteMessage(w, http.StatusUnauthorized, "invalid token")
		return
	}

	if err := h.AuthService.Resend(ctx, claims); err != nil {
		if errors.Is(err, service.ErrChallengeExpired) {
			httpx.WriteMessage(w, http.StatusUnauthorized, "OTP session expired")
			return
		}
		log.Error("otp resend failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "OTP resent")
}

// HandleSetPassword handles POST /api/auth/set-password.
func (h *AuthHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.SetPasswordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.EmpID == "" || req.Password == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	if err := h.AuthService.SetPassword(ctx, req.EmpID, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		case errors.Is(err, service.ErrUnknownUser):
			httpx.WriteMessage(w, http.StatusNotFound, "Employee not found")
		case errors.Is(err, service.ErrPasswordAlreadySet):
			httpx.WriteMessage(w, http.StatusConflict, "Password already set")
		default:
			log.Error("set password failed", "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "Unable to set password")
		}
		return
	}

	httpx.WriteMessage(w, http.StatusOK, "Password set successfully!")
}
