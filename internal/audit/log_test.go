package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"agentdesk.io/internal/auth"
	"agentdesk.io/internal/obs"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	logger := obs.Logger()
	orig := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(orig) })
	return &buf
}

func TestLogEventIncludesStaffActor(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = auth.ContextWithIdentity(ctx, auth.Identity{
		Mode:        auth.ModeStaff,
		StaffUserID: "staff-9",
		AgencyID:    "agency-1",
		Role:        auth.RoleStaff,
	})

	if err := LogEvent(ctx, "staff.session.revoke", map[string]any{"session_id": "sess-1"}); err != nil {
		t.Fatalf("LogEvent: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("log not valid JSON: %v", err)
	}
	if entry["event"] != "staff.session.revoke" {
		t.Fatalf("unexpected event: %v", entry["event"])
	}
	if entry["actor_mode"] != "staff" || entry["actor_staff_user_id"] != "staff-9" {
		t.Fatalf("actor fields missing: %v", entry)
	}
	if entry["agency_id"] != "agency-1" || entry["request_id"] != "req-1" {
		t.Fatalf("context fields missing: %v", entry)
	}
}

func TestLogEventRequiresName(t *testing.T) {
	if err := LogEvent(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}
