package httpapi

import (
	"context"
	"net/http"
	"time"

	"agentdesk.io/internal/agency"
	"agentdesk.io/internal/auth"
	"agentdesk.io/internal/obs"
)

// API is the HTTP surface of the back office. Route registration decides,
// per endpoint, which credential modes are accepted; handlers then gate
// every tenant-scoped resource before touching it.
type API struct {
	mux        *http.ServeMux
	readyProbe func(context.Context) error
	version    string

	resolver *auth.Resolver
	staff    *auth.StaffService
	agencies *agency.Service

	rateBurst     int
	ratePerSecond int
}

// Option configures optional API behavior.
type Option func(*API)

// WithRateLimit overrides the default per-IP rate limit.
func WithRateLimit(burst, perSecond int) Option {
	return func(a *API) {
		a.rateBurst = burst
		a.ratePerSecond = perSecond
	}
}

// New wires the API routes. readyProbe reports backing-store readiness and
// may be nil when there is nothing to probe.
func New(resolver *auth.Resolver, staff *auth.StaffService, agencies *agency.Service, readyProbe func(context.Context) error, version string, opts ...Option) *API {
	a := &API{
		mux:           http.NewServeMux(),
		readyProbe:    readyProbe,
		version:       version,
		resolver:      resolver,
		staff:         staff,
		agencies:      agencies,
		rateBurst:     20,
		ratePerSecond: 10,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReadyz)
	a.mux.HandleFunc("/v1/info", a.handleInfo)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/staff/login", a.handleStaffLogin)
	a.mux.HandleFunc("/v1/staff/logout", a.handleStaffLogout)
	a.mux.HandleFunc("/v1/staff/session", a.handleStaffSession)

	a.mux.HandleFunc("/v1/agencies/", a.handleAgencyScoped)
	a.mux.HandleFunc("/v1/team-members/", a.handleTeamMember)
	a.mux.HandleFunc("/v1/reports", a.handleReports)
	a.mux.HandleFunc("/v1/renewals/", a.handleRenewal)

	return a
}

// Handler returns the API wrapped in the middleware chain. CORS sits outside
// everything request-scoped so preflight never reaches authentication.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSecond)
	h = LoggingJSON(h)
	h = RequestID(h)
	h = CORS(h)
	h = SecurityHeaders(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if a.readyProbe != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.readyProbe(ctx); err != nil {
			writeError(w, r, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (a *API) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "agentdesk-api",
		"version": a.version,
	})
}
