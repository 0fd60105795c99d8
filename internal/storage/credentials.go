package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"realm-presence/internal/domain"
	"realm-presence/internal/repository"
)

type credentialDoc struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// CredentialRepository stores one object per username, so a lookup is a
// single GetObject and usernames stay unique.
type CredentialRepository struct {
	bucket bucket
}

func NewCredentialRepository(client ObjectAPI, opts Options) repository.CredentialRepository {
	return &CredentialRepository{bucket: newBucket(client, opts)}
}

func (r *CredentialRepository) Init(ctx context.Context) error {
	return r.bucket.check(ctx)
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	cred.CreatedAt = time.Now().UTC()

	doc := credentialDoc{ID: cred.ID, Username: cred.Username, CreatedAt: cred.CreatedAt}
	if err := r.bucket.put(ctx, r.bucket.key(credentialsDir, cred.Username), doc, true); err != nil {
		if errors.Is(err, errPrecondition) {
			return fmt.Errorf("credential %q: %w", cred.Username, repository.ErrAlreadyExists)
		}
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) GetByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	var doc credentialDoc
	if err := r.bucket.get(ctx, r.bucket.key(credentialsDir, username), &doc); err != nil {
		if errors.Is(err, errMissing) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load credential: %w", err)
	}
	return &domain.Credential{ID: doc.ID, Username: doc.Username, CreatedAt: doc.CreatedAt}, nil
}

func (r *CredentialRepository) List(ctx context.Context) ([]domain.Credential, error) {
	keys, err := r.bucket.listKeys(ctx, credentialsDir)
	if err != nil {
		return nil, err
	}

	creds := make([]domain.Credential, 0, len(keys))
	for _, key := range keys {
		var doc credentialDoc
		if err := r.bucket.get(ctx, key, &doc); err != nil {
			if errors.Is(err, errMissing) {
				continue
			}
			return nil, fmt.Errorf("load credential: %w", err)
		}
		creds = append(creds, domain.Credential{ID: doc.ID, Username: doc.Username, CreatedAt: doc.CreatedAt})
	}
	sort.Slice(creds, func(i, j int) bool { return creds[i].Username < creds[j].Username })
	return creds, nil
}
