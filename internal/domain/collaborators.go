package domain

import "context"

// MediaIndex is the read side of the media index consumed by the inline
// query pipeline. Result ordering is whatever the index returns.
type MediaIndex interface {
	// GetRecentMedia returns the most recently indexed items, newest first.
	GetRecentMedia(ctx context.Context, limit int) ([]MediaRecord, error)
	// SearchMedia returns items matching term. A non-empty fileType
	// restricts matches to that exact tag; an unrecognized tag matches
	// nothing rather than being ignored.
	SearchMedia(ctx context.Context, term, fileType string) ([]MediaRecord, error)
}

// MediaStore extends MediaIndex with the write side used by the indexer.
type MediaStore interface {
	MediaIndex
	SaveMedia(ctx context.Context, rec MediaRecord) error
	DeleteMediaByUniqueID(ctx context.Context, uniqueID string) error
	Stats(ctx context.Context) (IndexStats, error)
}

// AccessChecker answers the two gate questions. Implementations absorb
// transport errors and answer false (deny by default).
type AccessChecker interface {
	IsSubscribed(ctx context.Context, userID int64) bool
	IsAuthorized(ctx context.Context, userID int64) bool
}

// AuthStore persists allow-list grants made at runtime (/grant, /revoke).
// The effective allow-list is the union of the configured IDs and these
// grants; HasGrants lets the checker tell an empty (open) list from a
// populated one.
type AuthStore interface {
	GrantUser(ctx context.Context, userID, grantedBy int64) error
	RevokeUser(ctx context.Context, userID int64) error
	IsGranted(ctx context.Context, userID int64) (bool, error)
	HasGrants(ctx context.Context) (bool, error)
}

// Identity exposes the bot's own identity for user-facing text.
type Identity interface {
	Username() string
}
