package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/devserver/service"
	"github.com/aussiebroadwan/leavedesk/pkg/httpx"
	"github.com/aussiebroadwan/leavedesk/pkg/jwtx"
	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	AuthService *service.AuthService
}

func NewRouter(verifier jwtx.Verifier, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential check: strict limit per IP and mobile number.
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "mobileNumber"),
		),
	)

	// The challenge token is the bearer; attempts are also capped per challenge.
	r.Mux.Handle("POST /verify-otp",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.ModerateLimit),
			httpx.RequireBearer(r.verifier, jwtx.PurposeChallenge),
		),
	)

	r.Mux.Handle("POST /resend-otp",
		httpx.Chain(http.HandlerFunc(h.HandleResend),
			httpx.RateLimitByIP(httpx.StrictLimit),
			httpx.RequireBearer(r.verifier, jwtx.PurposeChallenge),
		),
	)

	r.Mux.Handle("POST /api/auth/set-password",
		httpx.Chain(http.HandlerFunc(h.HandleSetPassword),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "empId"),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
}
