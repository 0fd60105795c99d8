package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"realm-presence/internal/domain"
	"realm-presence/internal/repository"
	"realm-presence/internal/timestamp"
)

// PresenceTracker records whether a user currently has the app open.
type PresenceTracker interface {
	// SetActiveFlag resolves the credential for username and upserts its
	// presence row. It never fails: problems are logged and reported in the
	// returned Outcome.
	SetActiveFlag(ctx context.Context, username string, isActive bool) Outcome
	GetPresence(ctx context.Context, userID string) (*domain.Presence, error)
	ListPresence(ctx context.Context) ([]domain.Presence, error)
}

type TrackerConfig struct {
	OffsetHours float64
	Logger      *logrus.Logger
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

type presenceTracker struct {
	credentials repository.CredentialRepository
	presence    repository.PresenceRepository
	offset      float64
	logger      *logrus.Logger
	now         func() time.Time
}

func NewPresenceTracker(credentials repository.CredentialRepository, presence repository.PresenceRepository, cfg TrackerConfig) PresenceTracker {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &presenceTracker{
		credentials: credentials,
		presence:    presence,
		offset:      cfg.OffsetHours,
		logger:      cfg.Logger,
		now:         cfg.Now,
	}
}

func (t *presenceTracker) SetActiveFlag(ctx context.Context, username string, isActive bool) Outcome {
	if strings.TrimSpace(username) == "" {
		return Outcome{Kind: OutcomeMissingSession, Err: ErrMissingSession}
	}
	log := t.logger.WithFields(logrus.Fields{"username": username, "is_active": isActive})

	cred, err := t.credentials.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug("presence update skipped: no credential")
			return Outcome{Kind: OutcomeNotFound, Err: ErrNotFound}
		}
		log.Warnf("presence credential lookup: %v", err)
		return Outcome{Kind: OutcomeLookupFailure, Err: fmt.Errorf("%w: %w", ErrLookupFailure, err)}
	}

	now := timestamp.Format(t.now(), t.offset)
	record := &domain.Presence{
		UserID:     cred.ID,
		IsActive:   isActive,
		LastActive: now,
		UpdatedAt:  now,
	}
	if err := t.presence.Upsert(ctx, record); err != nil {
		log.Warnf("presence upsert: %v", err)
		return Outcome{Kind: OutcomeWriteFailure, UserID: cred.ID, Err: fmt.Errorf("%w: %w", ErrWriteFailure, err)}
	}

	log.WithField("user_id", cred.ID).Debug("presence updated")
	return Outcome{Kind: OutcomeUpdated, UserID: cred.ID, Presence: record}
}

func (t *presenceTracker) GetPresence(ctx context.Context, userID string) (*domain.Presence, error) {
	return t.presence.Get(ctx, userID)
}

func (t *presenceTracker) ListPresence(ctx context.Context) ([]domain.Presence, error) {
	return t.presence.List(ctx)
}
