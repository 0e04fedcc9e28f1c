// Package access gates inline queries: a requester must have joined the
// required channel and pass the allow-list before the index answers.
package access

import (
	"context"
	"log/slog"

	"mediadex/internal/domain"
)

// Decision is the gate outcome for one requester.
type Decision int

const (
	Allowed Decision = iota
	SubscriptionRequired
	Unauthorized
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case SubscriptionRequired:
		return "subscription_required"
	case Unauthorized:
		return "unauthorized"
	}
	return "unknown"
}

type Gate struct {
	checker domain.AccessChecker
	logger  *slog.Logger
}

func NewGate(checker domain.AccessChecker, logger *slog.Logger) *Gate {
	return &Gate{checker: checker, logger: logger}
}

// Authorize checks subscription first, then the allow-list. The first
// failing check wins; the allow-list is never consulted for a user who has
// not joined the channel.
func (g *Gate) Authorize(ctx context.Context, userID int64) Decision {
	if !g.checker.IsSubscribed(ctx, userID) {
		return SubscriptionRequired
	}
	if !g.checker.IsAuthorized(ctx, userID) {
		return Unauthorized
	}
	return Allowed
}
