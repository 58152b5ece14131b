package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"agentdesk.io/internal/audit"
	"agentdesk.io/internal/auth"
	"agentdesk.io/internal/obs"
)

type staffLoginRequest struct {
	AgencySlug string `json:"agency_slug"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type staffLoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt string         `json:"expires_at"`
	StaffUser auth.StaffUser `json:"staff_user"`
}

func (a *API) handleStaffLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req staffLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch {
	case strings.TrimSpace(req.AgencySlug) == "":
		writeError(w, r, http.StatusBadRequest, "agency_slug is required")
		return
	case strings.TrimSpace(req.Email) == "":
		writeError(w, r, http.StatusBadRequest, "email is required")
		return
	case req.Password == "":
		writeError(w, r, http.StatusBadRequest, "password is required")
		return
	}

	// An unknown slug fails the same way a bad password does, so login
	// attempts cannot probe which agencies exist.
	ag, err := a.agencies.ResolveSlug(r.Context(), req.AgencySlug)
	if err != nil {
		obs.AuthFailure("login_failed")
		writeError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	grant, err := a.staff.Login(r.Context(), ag.ID, req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrUnauthenticated) {
			obs.LogError("staff_login", err, map[string]any{"agency_id": ag.ID})
			writeError(w, r, http.StatusInternalServerError, "internal error")
			return
		}
		obs.AuthFailure("login_failed")
		writeError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	_ = audit.LogEvent(r.Context(), "staff.login", map[string]any{
		"staff_user_id": grant.Staff.ID,
		"agency_id":     grant.Staff.AgencyID,
	})
	writeJSON(w, http.StatusOK, staffLoginResponse{
		Token:     grant.Token,
		ExpiresAt: grant.ExpiresAt.UTC().Format(time.RFC3339),
		StaffUser: grant.Staff,
	})
}

func (a *API) handleStaffLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	identity, ok := a.authenticate(w, r, auth.AllowStaff)
	if !ok {
		return
	}
	if err := a.staff.Logout(r.Context(), identity); err != nil {
		obs.LogError("staff_logout", err, map[string]any{"session_id": identity.SessionID})
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	ctx := auth.ContextWithIdentity(r.Context(), identity)
	_ = audit.LogEvent(ctx, "staff.logout", map[string]any{
		"session_id": identity.SessionID,
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleStaffSession lets a staff client check what its token resolves to.
func (a *API) handleStaffSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	identity, ok := a.authenticate(w, r, auth.AllowStaff)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"identity": identity})
}
