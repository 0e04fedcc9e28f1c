package access

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type recordingChecker struct {
	subscribed      bool
	authorized      bool
	authorizedCalls int
}

func (r *recordingChecker) IsSubscribed(ctx context.Context, userID int64) bool {
	return r.subscribed
}

func (r *recordingChecker) IsAuthorized(ctx context.Context, userID int64) bool {
	r.authorizedCalls++
	return r.authorized
}

func TestAuthorize_Allowed(t *testing.T) {
	gate := NewGate(&recordingChecker{subscribed: true, authorized: true}, testLogger())
	if d := gate.Authorize(context.Background(), 1); d != Allowed {
		t.Fatalf("expected Allowed, got %v", d)
	}
}

func TestAuthorize_SubscriptionFirst(t *testing.T) {
	checker := &recordingChecker{subscribed: false, authorized: true}
	gate := NewGate(checker, testLogger())

	if d := gate.Authorize(context.Background(), 1); d != SubscriptionRequired {
		t.Fatalf("expected SubscriptionRequired, got %v", d)
	}
	if checker.authorizedCalls != 0 {
		t.Error("allow-list must not be consulted when subscription fails")
	}
}

func TestAuthorize_Unauthorized(t *testing.T) {
	gate := NewGate(&recordingChecker{subscribed: true, authorized: false}, testLogger())
	if d := gate.Authorize(context.Background(), 1); d != Unauthorized {
		t.Fatalf("expected Unauthorized, got %v", d)
	}
}

func TestDecision_String(t *testing.T) {
	if Allowed.String() != "allowed" {
		t.Errorf("unexpected: %s", Allowed)
	}
	if SubscriptionRequired.String() != "subscription_required" {
		t.Errorf("unexpected: %s", SubscriptionRequired)
	}
	if Unauthorized.String() != "unauthorized" {
		t.Errorf("unexpected: %s", Unauthorized)
	}
}
