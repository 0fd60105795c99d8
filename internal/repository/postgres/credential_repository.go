package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"realm-presence/internal/domain"
	"realm-presence/internal/repository"
)

type CredentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) repository.CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Init(ctx context.Context) error {
	return requireTable(ctx, r.db, `"Credentials"`)
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, `
INSERT INTO "Credentials" (id, username)
VALUES ($1, $2)
RETURNING created_at`,
		cred.ID,
		cred.Username,
	).Scan(&cred.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("credential %q: %w", cred.Username, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	var cred domain.Credential
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, created_at
FROM "Credentials"
WHERE username = $1`,
		username,
	).Scan(&cred.ID, &cred.Username, &cred.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query credential: %w", err)
	}
	return &cred, nil
}

func (r *CredentialRepository) List(ctx context.Context) ([]domain.Credential, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, username, created_at
FROM "Credentials"
ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	var creds []domain.Credential
	for rows.Next() {
		var cred domain.Credential
		if err := rows.Scan(&cred.ID, &cred.Username, &cred.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		creds = append(creds, cred)
	}
	return creds, rows.Err()
}
