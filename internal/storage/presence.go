package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"realm-presence/internal/domain"
	"realm-presence/internal/repository"
)

// PresenceRepository keeps userInfo/<userId>.json per user. Upsert is a plain
// overwrite; S3 applies concurrent writes in arrival order.
type PresenceRepository struct {
	bucket bucket
}

func NewPresenceRepository(client ObjectAPI, opts Options) repository.PresenceRepository {
	return &PresenceRepository{bucket: newBucket(client, opts)}
}

func (r *PresenceRepository) Init(ctx context.Context) error {
	return r.bucket.check(ctx)
}

func (r *PresenceRepository) Upsert(ctx context.Context, presence *domain.Presence) error {
	if presence.UserID == "" {
		return fmt.Errorf("upsert presence: user id is required")
	}
	if err := r.bucket.put(ctx, r.bucket.key(userInfoDir, presence.UserID), presence, false); err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

func (r *PresenceRepository) Get(ctx context.Context, userID string) (*domain.Presence, error) {
	var p domain.Presence
	if err := r.bucket.get(ctx, r.bucket.key(userInfoDir, userID), &p); err != nil {
		if errors.Is(err, errMissing) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load presence: %w", err)
	}
	return &p, nil
}

func (r *PresenceRepository) List(ctx context.Context) ([]domain.Presence, error) {
	keys, err := r.bucket.listKeys(ctx, userInfoDir)
	if err != nil {
		return nil, err
	}

	list := make([]domain.Presence, 0, len(keys))
	for _, key := range keys {
		var p domain.Presence
		if err := r.bucket.get(ctx, key, &p); err != nil {
			if errors.Is(err, errMissing) {
				continue
			}
			return nil, fmt.Errorf("load presence: %w", err)
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].UpdatedAt != list[j].UpdatedAt {
			return list[i].UpdatedAt > list[j].UpdatedAt
		}
		return list[i].UserID < list[j].UserID
	})
	return list, nil
}
