package service

import (
	"context"
	"sync"
	"sync/atomic"

	"realm-presence/internal/domain"
	"realm-presence/internal/repository"
)

type fakeCredentials struct {
	mu        sync.Mutex
	byName    map[string]domain.Credential
	lookups   atomic.Int32
	getErr    error
	createErr error
}

func newFakeCredentials(creds ...domain.Credential) *fakeCredentials {
	f := &fakeCredentials{byName: map[string]domain.Credential{}}
	for _, c := range creds {
		f.byName[c.Username] = c
	}
	return f
}

func (f *fakeCredentials) Init(ctx context.Context) error { return nil }

func (f *fakeCredentials) Create(ctx context.Context, cred *domain.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byName[cred.Username]; ok {
		return repository.ErrAlreadyExists
	}
	if cred.ID == "" {
		cred.ID = "id-" + cred.Username
	}
	f.byName[cred.Username] = *cred
	return nil
}

func (f *fakeCredentials) GetByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	f.lookups.Add(1)
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byName[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCredentials) List(ctx context.Context) ([]domain.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Credential
	for _, c := range f.byName {
		out = append(out, c)
	}
	return out, nil
}

// fakePresence records upserts; when gate is set each upsert announces itself
// on arrived and blocks until its gate channel is released, which lets tests
// choose the commit order.
type fakePresence struct {
	mu      sync.Mutex
	rows    map[string]domain.Presence
	commits []domain.Presence
	upserts atomic.Int32
	err     error

	arrived chan bool
	gate    map[bool]chan struct{}
}

func newFakePresence() *fakePresence {
	return &fakePresence{rows: map[string]domain.Presence{}}
}

func (f *fakePresence) Init(ctx context.Context) error { return nil }

func (f *fakePresence) Upsert(ctx context.Context, p *domain.Presence) error {
	f.upserts.Add(1)
	if f.gate != nil {
		f.arrived <- p.IsActive
		<-f.gate[p.IsActive]
	}
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[p.UserID] = *p
	f.commits = append(f.commits, *p)
	return nil
}

func (f *fakePresence) Get(ctx context.Context, userID string) (*domain.Presence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakePresence) List(ctx context.Context) ([]domain.Presence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Presence
	for _, p := range f.rows {
		out = append(out, p)
	}
	return out, nil
}
