package auth

import "context"

// ProfileStore looks up platform-user profiles.
type ProfileStore interface {
	// FindProfile returns the profile for a verified platform user id, or
	// ErrNotFound when the user was never provisioned.
	FindProfile(ctx context.Context, userID string) (Profile, error)
}

// StaffStore persists staff users and their sessions.
type StaffStore interface {
	// FindStaffByEmail returns the staff user for an agency-scoped email, or
	// ErrNotFound.
	FindStaffByEmail(ctx context.Context, agencyID, email string) (StaffUser, error)
	// FindSession returns the session row with the given id joined through
	// its staff user, or ErrNotFound. Read-only; never mutates state.
	FindSession(ctx context.Context, sessionID string) (SessionRow, error)
	// CreateSession inserts a new session row.
	CreateSession(ctx context.Context, row SessionRow) error
	// RevokeSession clears the validity flag of one session.
	RevokeSession(ctx context.Context, sessionID string) error
}
