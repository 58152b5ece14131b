package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

const defaultStaffSessionTTL = 12 * time.Hour

// StaffService handles the staff session lifecycle the session adapter only
// reads: login creates a session, logout revokes the presented one.
type StaffService struct {
	store      StaffStore
	sessionTTL time.Duration
	now        func() time.Time
}

// StaffServiceOption configures StaffService behavior.
type StaffServiceOption func(*StaffService)

// WithSessionTTL overrides the default session lifetime.
func WithSessionTTL(ttl time.Duration) StaffServiceOption {
	return func(s *StaffService) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithServiceClock overrides the time source (useful for tests).
func WithServiceClock(fn func() time.Time) StaffServiceOption {
	return func(s *StaffService) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewStaffService constructs a StaffService.
func NewStaffService(store StaffStore, opts ...StaffServiceOption) (*StaffService, error) {
	if store == nil {
		return nil, errors.New("staff store is required")
	}
	svc := &StaffService{
		store:      store,
		sessionTTL: defaultStaffSessionTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// StaffSessionGrant is returned once at login; the opaque token inside is
// never recoverable afterwards.
type StaffSessionGrant struct {
	Token     string
	ExpiresAt time.Time
	Staff     StaffUser
}

// Login checks staff credentials within an agency and creates a session.
// Every failure collapses to ErrUnauthenticated so callers cannot probe
// which part rejected them.
func (s *StaffService) Login(ctx context.Context, agencyID, email, password string) (StaffSessionGrant, error) {
	agencyID = strings.TrimSpace(agencyID)
	email = strings.TrimSpace(strings.ToLower(email))
	if agencyID == "" || email == "" || password == "" {
		return StaffSessionGrant{}, ErrUnauthenticated
	}

	staff, err := s.store.FindStaffByEmail(ctx, agencyID, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return StaffSessionGrant{}, ErrUnauthenticated
		}
		return StaffSessionGrant{}, err
	}
	if !staff.IsActive {
		return StaffSessionGrant{}, ErrUnauthenticated
	}
	if err := VerifyPassword(staff.PasswordHash, password); err != nil {
		return StaffSessionGrant{}, ErrUnauthenticated
	}

	token, sessionID, tokenHash, err := NewSessionToken()
	if err != nil {
		return StaffSessionGrant{}, err
	}
	now := s.now().UTC()
	row := SessionRow{
		ID:          sessionID,
		StaffUserID: staff.ID,
		AgencyID:    staff.AgencyID,
		TokenHash:   tokenHash,
		ExpiresAt:   now.Add(s.sessionTTL),
		IsValid:     true,
		CreatedAt:   now,
	}
	if err := s.store.CreateSession(ctx, row); err != nil {
		return StaffSessionGrant{}, err
	}
	return StaffSessionGrant{
		Token:     token,
		ExpiresAt: row.ExpiresAt,
		Staff:     staff,
	}, nil
}

// Logout revokes the session an identity was resolved from. Revoking an
// already-revoked session is a no-op.
func (s *StaffService) Logout(ctx context.Context, identity Identity) error {
	if identity.Mode != ModeStaff || identity.SessionID == "" {
		return ErrUnauthenticated
	}
	return s.store.RevokeSession(ctx, identity.SessionID)
}
