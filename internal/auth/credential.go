package auth

import (
	"net/http"
	"strings"
)

const (
	authorizationHeader = "Authorization"
	staffSessionHeader  = "x-staff-session"
	bearerPrefix        = "Bearer "
)

// ModeSet restricts which credential kinds an endpoint consults. Routes
// declare their mask at registration time; there is no universal rule for
// which endpoints accept staff identities.
type ModeSet uint8

const (
	AllowPlatform ModeSet = 1 << iota
	AllowStaff
)

// AllowAny accepts both credential paths.
const AllowAny = AllowPlatform | AllowStaff

func (m ModeSet) platform() bool { return m&AllowPlatform != 0 }
func (m ModeSet) staff() bool    { return m&AllowStaff != 0 }

// CredentialKind discriminates the extractor's output.
type CredentialKind int

const (
	CredentialNone CredentialKind = iota
	CredentialBearer
	CredentialStaffSession
)

// Credential is the raw token pulled from inbound headers, before any
// verification.
type Credential struct {
	Kind  CredentialKind
	Token string
}

// ExtractCredential reads exactly one credential from the request headers.
// Pure function of the headers and the endpoint's mode mask: when both a
// bearer token and a staff session are present on a dual-mode endpoint, the
// staff session wins.
func ExtractCredential(h http.Header, modes ModeSet) Credential {
	if modes.staff() {
		if token := strings.TrimSpace(h.Get(staffSessionHeader)); token != "" {
			return Credential{Kind: CredentialStaffSession, Token: token}
		}
	}
	if modes.platform() {
		if token, err := bearerToken(h.Get(authorizationHeader)); err == nil {
			return Credential{Kind: CredentialBearer, Token: token}
		}
	}
	return Credential{Kind: CredentialNone}
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrUnauthenticated
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerPrefix)) {
		return "", ErrUnauthenticated
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}
