package service

import (
	"context"
	"errors"
	"strings"

	"realm-presence/internal/domain"
	"realm-presence/internal/repository"
)

// ErrCredentialExists is returned when registering a username that is taken.
var ErrCredentialExists = errors.New("credential already exists")

// CredentialService seeds and lists the accounts presence rows refer to.
// Login and token issuance live with the identity provider, not here.
type CredentialService interface {
	Register(ctx context.Context, username string) (*domain.Credential, error)
	List(ctx context.Context) ([]domain.Credential, error)
}

type credentialService struct {
	credentials repository.CredentialRepository
}

func NewCredentialService(credentials repository.CredentialRepository) CredentialService {
	return &credentialService{credentials: credentials}
}

func (s *credentialService) Register(ctx context.Context, username string) (*domain.Credential, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}

	cred := &domain.Credential{Username: username}
	if err := s.credentials.Create(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrCredentialExists
		}
		return nil, err
	}
	return cred, nil
}

func (s *credentialService) List(ctx context.Context) ([]domain.Credential, error) {
	return s.credentials.List(ctx)
}
