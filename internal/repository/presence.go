package repository

import (
	"context"

	"realm-presence/internal/domain"
)

// PresenceRepository persists one presence row per user id. Upsert inserts the
// row or overwrites every field of the existing one; concurrent upserts for the
// same user resolve to whichever commits last.
type PresenceRepository interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, presence *domain.Presence) error
	Get(ctx context.Context, userID string) (*domain.Presence, error)
	List(ctx context.Context) ([]domain.Presence, error)
}
