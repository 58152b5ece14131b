package auth

import "testing"

func TestAuthorizeAdminBypassesTenantScope(t *testing.T) {
	admin := Identity{Mode: ModePlatform, UserID: "u1", AgencyID: "agency-1", Role: RoleAdmin}
	// Includes a target with no existing tenant: existence is a separate
	// lookup concern, not the gate's.
	for _, target := range []string{"agency-1", "agency-7", "no-such-agency", ""} {
		if d := Authorize(admin, target); !d.Allowed {
			t.Fatalf("admin denied for target %q: %+v", target, d)
		}
	}
}

func TestAuthorizeSameAgency(t *testing.T) {
	member := Identity{Mode: ModePlatform, UserID: "u2", AgencyID: "agency-1", Role: "owner"}
	if d := Authorize(member, "agency-1"); !d.Allowed {
		t.Fatalf("expected allow, got %+v", d)
	}
}

func TestAuthorizeCrossTenantDenied(t *testing.T) {
	member := Identity{Mode: ModePlatform, UserID: "u2", AgencyID: "agency-1", Role: "owner"}
	for _, target := range []string{"agency-2", "agency-7", ""} {
		d := Authorize(member, target)
		if d.Allowed {
			t.Fatalf("expected deny for target %q", target)
		}
		if d.Reason != ReasonCrossTenant {
			t.Fatalf("unexpected reason: %s", d.Reason)
		}
	}
}

func TestAuthorizeStaffScopedToOwnAgency(t *testing.T) {
	staff := Identity{Mode: ModeStaff, StaffUserID: "s1", AgencyID: "agency-1", Role: RoleStaff}
	if d := Authorize(staff, "agency-1"); !d.Allowed {
		t.Fatalf("expected allow, got %+v", d)
	}
	if d := Authorize(staff, "agency-2"); d.Allowed || d.Reason != ReasonCrossTenant {
		t.Fatalf("expected cross_tenant deny, got %+v", d)
	}
}

func TestAuthorizeStaffCannotClaimAdmin(t *testing.T) {
	// A staff identity carrying the admin role string must not gain
	// cross-tenant access: the admin bypass is platform-only.
	forged := Identity{Mode: ModeStaff, StaffUserID: "s1", AgencyID: "agency-1", Role: RoleAdmin}
	if d := Authorize(forged, "agency-2"); d.Allowed {
		t.Fatal("staff identity with admin role must not cross tenants")
	}
}

func TestAuthorizeEmptyAgencyNeverMatches(t *testing.T) {
	anon := Identity{Mode: ModePlatform, UserID: "u3", Role: "owner"}
	if d := Authorize(anon, ""); d.Allowed {
		t.Fatal("empty agency ids must not match each other")
	}
}
