package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"realm-presence/internal/domain"
	"realm-presence/internal/repository"
)

const createUserInfoTable = `
CREATE TABLE IF NOT EXISTS "userInfo" (
	"userId" TEXT PRIMARY KEY,
	"isActive" INTEGER NOT NULL DEFAULT 0,
	"lastActive" TEXT NOT NULL DEFAULT '',
	"updatedAt" TEXT NOT NULL DEFAULT '',
	FOREIGN KEY("userId") REFERENCES "Credentials"(id) ON DELETE CASCADE
);
`

const upsertUserInfo = `
INSERT INTO "userInfo" ("userId", "isActive", "lastActive", "updatedAt")
VALUES (?, ?, ?, ?)
ON CONFLICT("userId") DO UPDATE SET
	"isActive" = excluded."isActive",
	"lastActive" = excluded."lastActive",
	"updatedAt" = excluded."updatedAt"`

type PresenceRepository struct {
	db *sql.DB
}

func NewPresenceRepository(db *sql.DB) repository.PresenceRepository {
	return &PresenceRepository{db: db}
}

func (r *PresenceRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUserInfoTable); err != nil {
		return fmt.Errorf("create userInfo table: %w", err)
	}
	return nil
}

func (r *PresenceRepository) Upsert(ctx context.Context, presence *domain.Presence) error {
	if _, err := r.db.ExecContext(ctx, upsertUserInfo,
		presence.UserID,
		presence.IsActive,
		presence.LastActive,
		presence.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

func (r *PresenceRepository) Get(ctx context.Context, userID string) (*domain.Presence, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT "userId", "isActive", "lastActive", "updatedAt"
FROM "userInfo"
WHERE "userId" = ?`,
		userID,
	)
	return scanPresence(row)
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
		p, err := scanPresence(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func scanPresence(row interface {
	Scan(dest ...any) error
}) (*domain.Presence, error) {
	var p domain.Presence
	if err := row.Scan(&p.UserID, &p.IsActive, &p.LastActive, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan presence: %w", err)
	}
	return &p, nil
}
