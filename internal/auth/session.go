package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"agentdesk.io/internal/ids"
)

// Staff session tokens are "<id>.<secret>". Only sha256(secret) is stored, so
// a leaked session table cannot be replayed.

// NewSessionToken generates an opaque session token together with the row id
// and the hash to persist.
func NewSessionToken() (token, id, hash string, err error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", "", "", err
	}
	secret := base64.RawURLEncoding.EncodeToString(secretBytes)
	id = ids.New()
	sum := sha256.Sum256([]byte(secret))
	return id + "." + secret, id, hex.EncodeToString(sum[:]), nil
}

func splitSessionToken(raw string) (id, secret string, err error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 2 || parts[1] == "" || !ids.IsValid(parts[0]) {
		return "", "", errors.New("invalid session token format")
	}
	return parts[0], parts[1], nil
}

func secureCompareHash(expectedHash, secret string) bool {
	sum := sha256.Sum256([]byte(secret))
	actual := hex.EncodeToString(sum[:])
	if len(expectedHash) != len(actual) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expectedHash), []byte(actual)) == 1
}

// SessionAdapter validates opaque staff session tokens against the persisted
// session table. Lookup is read-only; revocation and renewal live elsewhere.
type SessionAdapter struct {
	store StaffStore
	now   func() time.Time
}

// NewSessionAdapter builds a SessionAdapter over the given store.
func NewSessionAdapter(store StaffStore) *SessionAdapter {
	return &SessionAdapter{store: store, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (a *SessionAdapter) WithClock(fn func() time.Time) *SessionAdapter {
	if fn != nil {
		a.now = fn
	}
	return a
}

// Lookup resolves a session token to its staff identity scope.
//
// Failure order is fixed: an unknown token (or one whose secret does not
// match) is ErrSessionNotFound, a matching row past expires_at is
// ErrSessionExpired regardless of the validity flag, and a revoked session
// or deactivated staff user is ErrSessionInvalidated.
func (a *SessionAdapter) Lookup(ctx context.Context, token string) (SessionRecord, error) {
	sessionID, secret, err := splitSessionToken(strings.TrimSpace(token))
	if err != nil {
		return SessionRecord{}, ErrSessionNotFound
	}
	row, err := a.store.FindSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return SessionRecord{}, ErrSessionNotFound
		}
		return SessionRecord{}, err
	}
	if !secureCompareHash(row.TokenHash, secret) {
		return SessionRecord{}, ErrSessionNotFound
	}
	if !a.now().Before(row.ExpiresAt) {
		return SessionRecord{}, ErrSessionExpired
	}
	if !row.IsValid || !row.StaffActive {
		return SessionRecord{}, ErrSessionInvalidated
	}
	return SessionRecord{
		SessionID:   row.ID,
		StaffUserID: row.StaffUserID,
		AgencyID:    row.AgencyID,
		ExpiresAt:   row.ExpiresAt,
	}, nil
}
