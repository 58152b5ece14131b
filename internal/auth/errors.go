package auth

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by the whole service. HTTP handlers map these onto
// status codes; everything else stays wrapped server-side.
var (
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	ErrForbidden       = errors.New("auth: forbidden")
	ErrNotFound        = errors.New("auth: not found")
	ErrInvalidInput    = errors.New("auth: invalid input")
	ErrConflict        = errors.New("auth: conflict")
)

// Session resolution failures. All unwrap to ErrUnauthenticated so the HTTP
// layer answers 401 with an identical generic body for each of them.
var (
	ErrSessionNotFound    = fmt.Errorf("%w: session not found", ErrUnauthenticated)
	ErrSessionExpired     = fmt.Errorf("%w: session expired", ErrUnauthenticated)
	ErrSessionInvalidated = fmt.Errorf("%w: session invalidated", ErrUnauthenticated)
)

// ErrInvalidToken indicates a bearer token failed verification.
var ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrUnauthenticated)

// ErrProfileNotFound means a verified platform user has no profile row.
// Treated as forbidden, not a server error: the account exists upstream but
// was never provisioned here.
var ErrProfileNotFound = fmt.Errorf("%w: no profile for user", ErrForbidden)
