package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"agentdesk.io/internal/agency"
	"agentdesk.io/internal/audit"
	"agentdesk.io/internal/auth"
	"agentdesk.io/internal/obs"
)

func (a *API) writeAgencyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, agency.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, agency.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "resource not found")
	case errors.Is(err, agency.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		obs.LogError("agency_store", err, map[string]any{"path": r.URL.Path})
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// handleAgencyScoped serves everything under /v1/agencies/{slug}. The slug
// from the URL is resolved to an agency id and that id, never anything the
// client sent, is what the tenant gate runs against.
func (a *API) handleAgencyScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/agencies/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 2 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	slug := parts[0]
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}

	switch sub {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.getAgency(w, r, slug)
	case "team-members":
		switch r.Method {
		case http.MethodGet:
			a.listTeamMembers(w, r, slug)
		case http.MethodPost:
			a.createTeamMember(w, r, slug)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
	case "reports":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listReports(w, r, slug)
	case "renewals":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listRenewals(w, r, slug)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

// resolveScopedAgency authenticates, resolves the slug and runs the gate.
// Any false return means the response has already been written.
func (a *API) resolveScopedAgency(w http.ResponseWriter, r *http.Request, slug string, modes auth.ModeSet) (auth.Identity, agency.Agency, bool) {
	identity, ok := a.authenticate(w, r, modes)
	if !ok {
		return auth.Identity{}, agency.Agency{}, false
	}
	ag, err := a.agencies.ResolveSlug(r.Context(), slug)
	if err != nil {
		a.writeAgencyError(w, r, err)
		return auth.Identity{}, agency.Agency{}, false
	}
	if !a.requireAgency(w, r, identity, ag.ID) {
		return auth.Identity{}, agency.Agency{}, false
	}
	return identity, ag, true
}

func (a *API) getAgency(w http.ResponseWriter, r *http.Request, slug string) {
	_, ag, ok := a.resolveScopedAgency(w, r, slug, auth.AllowAny)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ag)
}

func (a *API) listTeamMembers(w http.ResponseWriter, r *http.Request, slug string) {
	_, ag, ok := a.resolveScopedAgency(w, r, slug, auth.AllowAny)
	if !ok {
		return
	}
	members, err := a.agencies.ListTeamMembers(r.Context(), ag.ID)
	if err != nil {
		a.writeAgencyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"team_members": members})
}

type createTeamMemberRequest struct {
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Position string     `json:"position"`
	HiredAt  *time.Time `json:"hired_at"`
}

func (a *API) createTeamMember(w http.ResponseWriter, r *http.Request, slug string) {
	identity, ag, ok := a.resolveScopedAgency(w, r, slug, auth.AllowPlatform)
	if !ok {
		return
	}
	var req createTeamMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	member, err := a.agencies.CreateTeamMember(r.Context(), agency.TeamMember{
		AgencyID: ag.ID,
		FullName: req.FullName,
		Email:    req.Email,
		Position: req.Position,
		HiredAt:  req.HiredAt,
	})
	if err != nil {
		a.writeAgencyError(w, r, err)
		return
	}
	ctx := auth.ContextWithIdentity(r.Context(), identity)
	_ = audit.LogEvent(ctx, "team_member.create", map[string]any{
		"team_member_id": member.ID,
		"agency_id":      ag.ID,
	})
	writeJSON(w, http.StatusCreated, member)
}

func (a *API) listReports(w http.ResponseWriter, r *http.Request, slug string) {
	_, ag, ok := a.resolveScopedAgency(w, r, slug, auth.AllowPlatform)
	if !ok {
		return
	}
	reports, err := a.agencies.ListReports(r.Context(), ag.ID)
	if err != nil {
		a.writeAgencyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (a *API) listRenewals(w http.ResponseWriter, r *http.Request, slug string) {
	_, ag, ok := a.resolveScopedAgency(w, r, slug, auth.AllowAny)
	if !ok {
		return
	}
	renewals, err := a.agencies.ListRenewals(r.Context(), ag.ID)
	if err != nil {
		a.writeAgencyError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"renewals": renewals})
}

// handleTeamMember serves /v1/team-members/{id}. The gate runs against the
// agency id stored on the row the id resolves to.
func (a *API) handleTeamMember(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/team-members/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	identity, ok := a.authenticate(w, r, auth.AllowAny)
	if !ok {
		return
	}
	member, err := a.agencies.GetTeamMember(r.Context(), id)
	if err != nil {
		a.writeAgencyError(w, r, err)
		return
	}
	if !a.requireAgency(w, r, identity, member.AgencyID) {
		return
	}
	writeJSON(w, http.StatusOK, member)
}

type createReportRequest struct {
	AgencySlug string          `json:"agency_slug"`
	Period     string          `json:"period"`
	Summary    string          `json:"summary"`
	Metrics    json.RawMessage `json:"metrics"`
}

// handleReports accepts performance reports from platform users. Admins may
// name a target agency by slug; everyone else reports into their own.
func (a *API) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	identity, ok := a.authenticate(w, r, auth.AllowPlatform)
	if !ok {
		return
	}
	var req createReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	targetAgencyID := identity.AgencyID
	if strings.TrimSpace(req.AgencySlug) != "" {
		ag, err := a.agencies.ResolveSlug(r.Context(), req.AgencySlug)
		if err != nil {
			a.writeAgencyError(w, r, err)
			return
		}
		targetAgencyID = ag.ID
	}
	if targetAgencyID == "" {
		writeError(w, r, http.StatusBadRequest, "agency_slug is required")
		return
	}
	if !a.requireAgency(w, r, identity, targetAgencyID) {
		return
	}
	report, err := a.agencies.CreateReport(r.Context(), agency.Report{
		AgencyID:     targetAgencyID,
		AuthorUserID: identity.UserID,
		Period:       req.Period,
		Summary:      req.Summary,
		Metrics:      req.Metrics,
	})
	if err != nil {
		a.writeAgencyError(w, r, err)
		return
	}
	ctx := auth.ContextWithIdentity(r.Context(), identity)
	_ = audit.LogEvent(ctx, "report.create", map[string]any{
		"report_id": report.ID,
		"agency_id": report.AgencyID,
	})
	writeJSON(w, http.StatusCreated, report)
}

type renewalStatusRequest struct {
	Status string `json:"status"`
}

// handleRenewal serves /v1/renewals/{id}/status.
func (a *API) handleRenewal(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/renewals/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "status" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	identity, ok := a.authenticate(w, r, auth.AllowAny)
	if !ok {
		return
	}
	renewal, err := a.agencies.GetRenewal(r.Context(), parts[0])
	if err != nil {
		a.writeAgencyError(w, r, err)
		return
	}
	if !a.requireAgency(w, r, identity, renewal.AgencyID) {
		return
	}
	var req renewalStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := a.agencies.UpdateRenewalStatus(r.Context(), renewal.ID, req.Status)
	if err != nil {
		a.writeAgencyError(w, r, err)
		return
	}
	ctx := auth.ContextWithIdentity(r.Context(), identity)
	_ = audit.LogEvent(ctx, "renewal.status.update", map[string]any{
		"renewal_id": updated.ID,
		"agency_id":  updated.AgencyID,
		"status":     updated.Status,
	})
	writeJSON(w, http.StatusOK, updated)
}
