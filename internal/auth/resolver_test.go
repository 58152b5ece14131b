package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubProfileStore struct {
	profiles map[string]Profile
	err      error
}

func (s *stubProfileStore) FindProfile(_ context.Context, userID string) (Profile, error) {
	if s.err != nil {
		return Profile{}, s.err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func newTestResolver(t *testing.T, profiles *stubProfileStore, staff *stubStaffStore, now time.Time) (*Resolver, *TokenService) {
	t.Helper()
	tokens, err := NewTokenService("test-secret", "test-issuer")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	tokens.WithClock(func() time.Time { return now })
	adapter := NewSessionAdapter(staff).WithClock(func() time.Time { return now })
	resolver, err := NewResolver(tokens, profiles, adapter)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return resolver, tokens
}

func TestResolvePlatformIdentity(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	profiles := &stubProfileStore{profiles: map[string]Profile{
		"user-7": {UserID: "user-7", AgencyID: "agency-1", Role: "Owner"},
	}}
	resolver, tokens := newTestResolver(t, profiles, newStubStaffStore(), now)

	token, err := tokens.Mint("user-7", 15*time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	identity, err := resolver.Resolve(context.Background(), Credential{Kind: CredentialBearer, Token: token})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.Mode != ModePlatform || identity.UserID != "user-7" || identity.AgencyID != "agency-1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.Role != "owner" {
		t.Fatalf("role not normalized: %q", identity.Role)
	}
}

func TestResolvePlatformAdmin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	profiles := &stubProfileStore{profiles: map[string]Profile{
		"root": {UserID: "root", Role: RoleAdmin},
	}}
	resolver, tokens := newTestResolver(t, profiles, newStubStaffStore(), now)

	token, _ := tokens.Mint("root", time.Minute)
	identity, err := resolver.Resolve(context.Background(), Credential{Kind: CredentialBearer, Token: token})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !identity.IsAdmin() {
		t.Fatalf("expected admin identity, got %+v", identity)
	}
	// Admins cross tenants, including agencies with no relation to them.
	if d := Authorize(identity, "agency-7"); !d.Allowed {
		t.Fatalf("admin denied: %+v", d)
	}
}

func TestResolveInvalidBearerToken(t *testing.T) {
	now := time.Now().UTC()
	resolver, _ := newTestResolver(t, &stubProfileStore{}, newStubStaffStore(), now)

	_, err := resolver.Resolve(context.Background(), Credential{Kind: CredentialBearer, Token: "bogus"})
	if !errors.Is(err, ErrInvalidToken) || !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestResolveVerifiedUserWithoutProfileIsForbidden(t *testing.T) {
	now := time.Now().UTC()
	resolver, tokens := newTestResolver(t, &stubProfileStore{profiles: map[string]Profile{}}, newStubStaffStore(), now)

	token, _ := tokens.Mint("ghost", time.Minute)
	_, err := resolver.Resolve(context.Background(), Credential{Kind: CredentialBearer, Token: token})
	if !errors.Is(err, ErrProfileNotFound) || !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrProfileNotFound wrapping ErrForbidden, got %v", err)
	}
}

func TestResolveStaffSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	staff := newStubStaffStore()
	token := seedSession(t, staff, SessionRow{
		StaffUserID: "staff-3",
		AgencyID:    "agency-1",
		ExpiresAt:   now.Add(time.Hour),
		IsValid:     true,
		StaffActive: true,
	})
	resolver, _ := newTestResolver(t, &stubProfileStore{}, staff, now)

	identity, err := resolver.Resolve(context.Background(), Credential{Kind: CredentialStaffSession, Token: token})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if identity.Mode != ModeStaff || identity.StaffUserID != "staff-3" || identity.AgencyID != "agency-1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.Role != RoleStaff {
		t.Fatalf("staff role sentinel expected, got %q", identity.Role)
	}
	if identity.SessionID == "" {
		t.Fatal("expected session id on staff identity")
	}

	// Same token within its validity window resolves identically.
	again, err := resolver.Resolve(context.Background(), Credential{Kind: CredentialStaffSession, Token: token})
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if again != identity {
		t.Fatalf("resolution not idempotent: %+v vs %+v", again, identity)
	}

	// Scenario: same identity, own agency allowed, foreign agency denied.
	if d := Authorize(identity, "agency-1"); !d.Allowed {
		t.Fatalf("expected allow, got %+v", d)
	}
	if d := Authorize(identity, "agency-2"); d.Allowed || d.Reason != ReasonCrossTenant {
		t.Fatalf("expected cross_tenant deny, got %+v", d)
	}
}

func TestResolveExpiredStaffSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	staff := newStubStaffStore()
	token := seedSession(t, staff, SessionRow{
		StaffUserID: "staff-3",
		AgencyID:    "agency-1",
		ExpiresAt:   now.Add(-time.Hour),
		IsValid:     true,
		StaffActive: true,
	})
	resolver, _ := newTestResolver(t, &stubProfileStore{}, staff, now)

	_, err := resolver.Resolve(context.Background(), Credential{Kind: CredentialStaffSession, Token: token})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestResolveNoCredential(t *testing.T) {
	resolver, _ := newTestResolver(t, &stubProfileStore{}, newStubStaffStore(), time.Now().UTC())
	if _, err := resolver.Resolve(context.Background(), Credential{Kind: CredentialNone}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
