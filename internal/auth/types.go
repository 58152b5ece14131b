package auth

import "time"

// Profile is the platform-user profile row. Role and agency scoping live
// here, not in the token: a verified subject with no profile is forbidden.
type Profile struct {
	UserID    string    `json:"user_id"`
	AgencyID  string    `json:"agency_id,omitempty"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StaffUser is a tenant-scoped identity authenticated by session token
// instead of the platform's native login. Always bound to exactly one agency.
type StaffUser struct {
	ID           string    `json:"id"`
	AgencyID     string    `json:"agency_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionRow is a staff session as persisted, joined through its staff user
// so the adapter can resolve agency scope and the is_active flag in one read.
type SessionRow struct {
	ID          string
	StaffUserID string
	AgencyID    string
	TokenHash   string
	ExpiresAt   time.Time
	IsValid     bool
	StaffActive bool
	CreatedAt   time.Time
}

// SessionRecord is the adapter's success output: just enough to build a
// staff identity.
type SessionRecord struct {
	SessionID   string
	StaffUserID string
	AgencyID    string
	ExpiresAt   time.Time
}
