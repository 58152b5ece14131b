package auth

import (
	"context"
	"errors"
	"strings"
)

// Resolver turns an extracted credential into a resolved identity. Two
// independent paths converge on the same output shape: bearer tokens go
// through the platform verifier and the profile table, staff session tokens
// through the session adapter.
type Resolver struct {
	tokens   TokenVerifier
	profiles ProfileStore
	sessions *SessionAdapter
}

// NewResolver wires the resolver's collaborators.
func NewResolver(tokens TokenVerifier, profiles ProfileStore, sessions *SessionAdapter) (*Resolver, error) {
	if tokens == nil {
		return nil, errors.New("token verifier is required")
	}
	if profiles == nil {
		return nil, errors.New("profile store is required")
	}
	if sessions == nil {
		return nil, errors.New("session adapter is required")
	}
	return &Resolver{tokens: tokens, profiles: profiles, sessions: sessions}, nil
}

// Resolve authenticates the credential and returns the identity every
// downstream handler consumes. Handlers must not re-derive agency scope from
// client-supplied parameters.
func (r *Resolver) Resolve(ctx context.Context, cred Credential) (Identity, error) {
	switch cred.Kind {
	case CredentialBearer:
		return r.resolvePlatform(ctx, cred.Token)
	case CredentialStaffSession:
		return r.resolveStaff(ctx, cred.Token)
	default:
		return Identity{}, ErrUnauthenticated
	}
}

func (r *Resolver) resolvePlatform(ctx context.Context, token string) (Identity, error) {
	userID, err := r.tokens.Verify(ctx, token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	profile, err := r.profiles.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Identity{}, ErrProfileNotFound
		}
		return Identity{}, err
	}
	return Identity{
		Mode:     ModePlatform,
		UserID:   profile.UserID,
		AgencyID: profile.AgencyID,
		Role:     strings.TrimSpace(strings.ToLower(profile.Role)),
	}, nil
}

func (r *Resolver) resolveStaff(ctx context.Context, token string) (Identity, error) {
	record, err := r.sessions.Lookup(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	// Staff identities sit outside the platform role taxonomy.
	return Identity{
		Mode:        ModeStaff,
		StaffUserID: record.StaffUserID,
		AgencyID:    record.AgencyID,
		Role:        RoleStaff,
		SessionID:   record.SessionID,
	}, nil
}
