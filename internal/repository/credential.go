package repository

import (
	"context"

	"realm-presence/internal/domain"
)

// CredentialRepository exposes the account records presence rows point at.
type CredentialRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, cred *domain.Credential) error
	GetByUsername(ctx context.Context, username string) (*domain.Credential, error)
	List(ctx context.Context) ([]domain.Credential, error)
}
