package auth

// Mode names the credential path an identity was resolved through.
type Mode string

const (
	// ModePlatform marks identities authenticated by a platform bearer token.
	ModePlatform Mode = "platform"
	// ModeStaff marks identities authenticated by a staff session token.
	ModeStaff Mode = "staff"
)

// Platform role taxonomy. Staff identities sit outside it: their role is
// always the RoleStaff sentinel and can never be RoleAdmin.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Identity is the single resolved output of one authentication pass. It
// lives for the duration of a request; handlers consume it instead of
// re-deriving scope from client-supplied parameters.
type Identity struct {
	Mode        Mode   `json:"mode"`
	UserID      string `json:"user_id,omitempty"`
	StaffUserID string `json:"staff_user_id,omitempty"`
	AgencyID    string `json:"agency_id"`
	Role        string `json:"role,omitempty"`

	// SessionID identifies the staff session the identity came from, so a
	// logout can revoke exactly the presented session.
	SessionID string `json:"-"`
}

// IsAdmin reports whether the identity holds the cross-tenant admin role.
// Only platform identities can.
func (id Identity) IsAdmin() bool {
	return id.Mode == ModePlatform && id.Role == RoleAdmin
}
