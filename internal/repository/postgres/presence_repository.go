package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"realm-presence/internal/domain"
	"realm-presence/internal/repository"
)

type PresenceRepository struct {
	db *sql.DB
}

func NewPresenceRepository(db *sql.DB) repository.PresenceRepository {
	return &PresenceRepository{db: db}
}

func (r *PresenceRepository) Init(ctx context.Context) error {
	return requireTable(ctx, r.db, `"userInfo"`)
}

func (r *PresenceRepository) Upsert(ctx context.Context, presence *domain.Presence) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO "userInfo" ("userId", "isActive", "lastActive", "updatedAt")
VALUES ($1, $2, $3, $4)
ON CONFLICT ("userId") DO UPDATE SET
	"isActive" = EXCLUDED."isActive",
	"lastActive" = EXCLUDED."lastActive",
	"updatedAt" = EXCLUDED."updatedAt"`,
		presence.UserID,
		presence.IsActive,
		presence.LastActive,
		presence.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

func (r *PresenceRepository) Get(ctx context.Context, userID string) (*domain.Presence, error) {
	var p domain.Presence
	err := r.db.QueryRowContext(ctx, `
SELECT "userId", "isActive", "lastActive", "updatedAt"
FROM "userInfo"
WHERE "userId" = $1`,
		userID,
	).Scan(&p.UserID, &p.IsActive, &p.LastActive, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query presence: %w", err)
	}
	return &p, nil
}

func (r *PresenceRepository) List(ctx context.Context) ([]domain.Presence, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT "userId", "isActive", "lastActive", "updatedAt"
FROM "userInfo"
ORDER BY "updatedAt" DESC, "userId" ASC`)
	if err != nil {
		return nil, fmt.Errorf("query presence: %w", err)
	}
	defer rows.Close()

	var list []domain.Presence
	for rows.Next() {
		var p domain.Presence
		if err := rows.Scan(&p.UserID, &p.IsActive, &p.LastActive, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan presence: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
