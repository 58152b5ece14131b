package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"agentdesk.io/internal/agency"
)

func TestStaffSessionScopedToOwnAgency(t *testing.T) {
	f := newFixture(t)
	token := f.seedStaffSession(t, "staff-alpha", agencyAlpha, time.Now().Add(time.Hour), true)

	rec := f.do(t, http.MethodGet, "/v1/agencies/alpha", nil, staffHeader(token))
	if rec.Code != http.StatusOK {
		t.Fatalf("own agency: got %d body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["slug"] != "alpha" {
		t.Fatalf("unexpected agency payload: %v", body)
	}

	rec = f.do(t, http.MethodGet, "/v1/agencies/beta", nil, staffHeader(token))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign agency: got %d, want 403", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != msgAccessDenied {
		t.Fatalf("foreign agency body: got %v", body["error"])
	}
}

func TestPlatformUserScopedToOwnAgency(t *testing.T) {
	f := newFixture(t)
	token := f.platformToken(t, "user-alpha")

	rec := f.do(t, http.MethodGet, "/v1/agencies/alpha/renewals", nil, bearer(token))
	if rec.Code != http.StatusOK {
		t.Fatalf("own agency: got %d body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/v1/agencies/beta/renewals", nil, bearer(token))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign agency: got %d, want 403", rec.Code)
	}
}

func TestAdminCrossesAgencies(t *testing.T) {
	f := newFixture(t)
	token := f.platformToken(t, "user-admin")

	for _, slug := range []string{"alpha", "beta"} {
		rec := f.do(t, http.MethodGet, "/v1/agencies/"+slug, nil, bearer(token))
		if rec.Code != http.StatusOK {
			t.Fatalf("admin GET %s: got %d body %s", slug, rec.Code, rec.Body.String())
		}
	}
}

func TestUnprovisionedPlatformUserForbidden(t *testing.T) {
	f := newFixture(t)
	token := f.platformToken(t, "user-ghost")

	rec := f.do(t, http.MethodGet, "/v1/agencies/alpha", nil, bearer(token))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != msgAccessDenied {
		t.Fatalf("body: got %v", body["error"])
	}
}

func TestPlatformOnlyRouteIgnoresStaffHeader(t *testing.T) {
	f := newFixture(t)
	token := f.seedStaffSession(t, "staff-alpha", agencyAlpha, time.Now().Add(time.Hour), true)

	rec := f.do(t, http.MethodPost, "/v1/agencies/alpha/team-members", map[string]string{
		"full_name": "New Hire",
	}, staffHeader(token))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != msgAuthRequired {
		t.Fatalf("body: got %v", body["error"])
	}
}

func TestStaffHeaderWinsOnDualModeRoutes(t *testing.T) {
	f := newFixture(t)
	staffToken := f.seedStaffSession(t, "staff-alpha", agencyAlpha, time.Now().Add(time.Hour), true)
	headers := bearer(f.platformToken(t, "user-admin"))
	headers["x-staff-session"] = staffToken

	// The admin bearer token would allow beta; the staff session must win
	// and be denied.
	rec := f.do(t, http.MethodGet, "/v1/agencies/beta", nil, headers)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
}

func TestCreateTeamMemberValidatesAndPersists(t *testing.T) {
	f := newFixture(t)
	token := f.platformToken(t, "user-admin")

	rec := f.do(t, http.MethodPost, "/v1/agencies/alpha/team-members", map[string]string{
		"email": "hire@alpha.test",
	}, bearer(token))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing name: got %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "agency: invalid input: full_name is required" {
		t.Fatalf("missing name body: got %v", body["error"])
	}

	rec = f.do(t, http.MethodPost, "/v1/agencies/alpha/team-members", map[string]string{
		"full_name": "New Hire",
		"email":     "Hire@Alpha.Test",
		"position":  "producer",
	}, bearer(token))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["agency_id"] != agencyAlpha {
		t.Fatalf("created member agency: got %v", body["agency_id"])
	}
	if body["email"] != "hire@alpha.test" {
		t.Fatalf("email not normalized: got %v", body["email"])
	}

	rec = f.do(t, http.MethodGet, "/v1/agencies/alpha/team-members", nil, bearer(token))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	members := decodeBody(t, rec)["team_members"].([]any)
	if len(members) != 1 {
		t.Fatalf("listed members: got %d, want 1", len(members))
	}
}

func TestTeamMemberResourceGatedByRowAgency(t *testing.T) {
	f := newFixture(t)
	member, err := f.store.CreateTeamMember(context.Background(), agency.TeamMember{AgencyID: agencyAlpha, FullName: "Alpha Member"})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}

	alphaToken := f.seedStaffSession(t, "staff-alpha", agencyAlpha, time.Now().Add(time.Hour), true)
	betaToken := f.seedStaffSession(t, "staff-beta", agencyBeta, time.Now().Add(time.Hour), true)

	rec := f.do(t, http.MethodGet, "/v1/team-members/"+member.ID, nil, staffHeader(alphaToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("own member: got %d body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/v1/team-members/"+member.ID, nil, staffHeader(betaToken))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign member: got %d, want 403", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/v1/team-members/no-such-id", nil, staffHeader(alphaToken))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown member: got %d, want 404", rec.Code)
	}
}

func TestReportsArePlatformOnly(t *testing.T) {
	f := newFixture(t)
	staffToken := f.seedStaffSession(t, "staff-alpha", agencyAlpha, time.Now().Add(time.Hour), true)

	rec := f.do(t, http.MethodPost, "/v1/reports", map[string]string{"period": "2026-08"}, staffHeader(staffToken))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("staff token: got %d, want 401", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/v1/agencies/alpha/reports", nil, staffHeader(staffToken))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("staff listing reports: got %d, want 401", rec.Code)
	}
}

func TestCreateReportResolvesSlugAndGates(t *testing.T) {
	f := newFixture(t)
	adminToken := f.platformToken(t, "user-admin")
	alphaToken := f.platformToken(t, "user-alpha")

	rec := f.do(t, http.MethodPost, "/v1/reports", map[string]string{
		"agency_slug": "beta",
		"period":      "2026-08",
		"summary":     "monthly numbers",
	}, bearer(adminToken))
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin create: got %d body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["agency_id"] != agencyBeta {
		t.Fatalf("report agency: got %v", body["agency_id"])
	}

	// A non-admin cannot report into a foreign agency.
	rec = f.do(t, http.MethodPost, "/v1/reports", map[string]string{
		"agency_slug": "beta",
		"period":      "2026-08",
	}, bearer(alphaToken))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-tenant report: got %d, want 403", rec.Code)
	}

	// Without a slug the report lands in the caller's own agency.
	rec = f.do(t, http.MethodPost, "/v1/reports", map[string]string{
		"period": "2026-08",
	}, bearer(alphaToken))
	if rec.Code != http.StatusCreated {
		t.Fatalf("own-agency report: got %d body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["agency_id"] != agencyAlpha {
		t.Fatalf("own-agency report landed in %v", body["agency_id"])
	}

	rec = f.do(t, http.MethodPost, "/v1/reports", map[string]string{
		"agency_slug": "alpha",
	}, bearer(adminToken))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing period: got %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "agency: invalid input: period is required" {
		t.Fatalf("missing period body: got %v", body["error"])
	}
}

func TestRenewalStatusLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t)
	f.store.renewals["rn-1"] = agency.Renewal{
		ID:           "rn-1",
		AgencyID:     agencyAlpha,
		PolicyNumber: "POL-100",
		Customer:     "Acme Co",
		RenewsAt:     time.Now().Add(30 * 24 * time.Hour),
		Status:       agency.RenewalPending,
	}
	alphaToken := f.seedStaffSession(t, "staff-alpha", agencyAlpha, time.Now().Add(time.Hour), true)
	betaToken := f.seedStaffSession(t, "staff-beta", agencyBeta, time.Now().Add(time.Hour), true)

	rec := f.do(t, http.MethodPost, "/v1/renewals/rn-1/status", map[string]string{"status": "contacted"}, staffHeader(betaToken))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign renewal: got %d, want 403", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/v1/renewals/rn-1/status", map[string]string{"status": "contacted"}, staffHeader(alphaToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("contact: got %d body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["status"] != agency.RenewalContacted {
		t.Fatalf("status after contact: got %v", body["status"])
	}

	rec = f.do(t, http.MethodPost, "/v1/renewals/rn-1/status", map[string]string{"status": "renewed"}, staffHeader(alphaToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("renew: got %d body %s", rec.Code, rec.Body.String())
	}

	// Renewed is terminal.
	rec = f.do(t, http.MethodPost, "/v1/renewals/rn-1/status", map[string]string{"status": "lapsed"}, staffHeader(alphaToken))
	if rec.Code != http.StatusConflict {
		t.Fatalf("terminal transition: got %d, want 409", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/v1/renewals/rn-1/status", map[string]string{"status": "frozen"}, staffHeader(alphaToken))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: got %d, want 400", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/v1/renewals/missing/status", map[string]string{"status": "contacted"}, staffHeader(alphaToken))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing renewal: got %d, want 404", rec.Code)
	}
}
