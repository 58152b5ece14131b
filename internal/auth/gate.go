package auth

// Deny reasons surfaced to callers of Authorize. HTTP handlers translate
// every deny into the same generic 403 body.
const (
	ReasonCrossTenant     = "cross_tenant"
	ReasonUnauthenticated = "unauthenticated"
)

// Decision is the gate's verdict for one identity/resource pair.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny builds a negative decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Authorize decides whether an identity may act on a resource owned by
// targetAgencyID. Rules, in order: platform admins pass regardless of target;
// matching agency passes; everything else is a cross-tenant deny.
//
// The gate does not validate that the target agency exists — targetAgencyID
// must come from a trusted lookup (slug resolution, a row's owning id),
// never verbatim from client input.
func Authorize(identity Identity, targetAgencyID string) Decision {
	if identity.IsAdmin() {
		return Allow
	}
	if identity.AgencyID != "" && identity.AgencyID == targetAgencyID {
		return Allow
	}
	return Deny(ReasonCrossTenant)
}
