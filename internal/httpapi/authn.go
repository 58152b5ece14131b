package httpapi

import (
	"errors"
	"net/http"

	"agentdesk.io/internal/auth"
	"agentdesk.io/internal/obs"
)

// Generic bodies for credential and authorization failures. The caller must
// not be able to tell a bad token from a revoked session or a tenant mismatch
// beyond the status code itself.
const (
	msgAuthRequired   = "Authentication required"
	msgInvalidSession = "Invalid or expired session"
	msgAccessDenied   = "Access denied"
)

// authenticate runs credential extraction and identity resolution for the
// mode set the route accepts. On failure it writes the response and returns
// ok=false; handlers must return immediately in that case.
func (a *API) authenticate(w http.ResponseWriter, r *http.Request, modes auth.ModeSet) (auth.Identity, bool) {
	cred := auth.ExtractCredential(r.Header, modes)
	if cred.Kind == auth.CredentialNone {
		obs.AuthFailure("missing_credential")
		writeError(w, r, http.StatusUnauthorized, msgAuthRequired)
		return auth.Identity{}, false
	}
	identity, err := a.resolver.Resolve(r.Context(), cred)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrForbidden):
			obs.AuthFailure("forbidden")
			writeError(w, r, http.StatusForbidden, msgAccessDenied)
		case errors.Is(err, auth.ErrUnauthenticated):
			obs.AuthFailure("unauthenticated")
			writeError(w, r, http.StatusUnauthorized, msgInvalidSession)
		default:
			obs.LogError("identity_resolve", err, nil)
			writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return auth.Identity{}, false
	}
	return identity, true
}

// requireAgency runs the tenant gate against a target agency id that came
// from a trusted lookup. On deny it writes a generic 403 and returns false.
func (a *API) requireAgency(w http.ResponseWriter, r *http.Request, identity auth.Identity, targetAgencyID string) bool {
	decision := auth.Authorize(identity, targetAgencyID)
	if !decision.Allowed {
		obs.AuthFailure(decision.Reason)
		writeError(w, r, http.StatusForbidden, msgAccessDenied)
		return false
	}
	return true
}
