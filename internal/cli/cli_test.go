package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realm-presence/internal/app"
	"realm-presence/internal/config"
	"realm-presence/internal/domain"
)

func newTestEnv(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()
	var cfg config.Config
	cfg.Store.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "presence.db")

	logger, _ := logtest.NewNullLogger()
	out := &bytes.Buffer{}
	return &Env{
		Out:         out,
		Logger:      logger,
		OffsetHours: 8,
		OpenStore: func(ctx context.Context) (*app.Store, error) {
			return app.OpenStore(ctx, cfg, logger)
		},
	}, out
}

func run(t *testing.T, env *Env, out *bytes.Buffer, args ...string) (string, error) {
	t.Helper()
	out.Reset()
	root := NewRootCommand(env)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCredentialAddAndList(t *testing.T) {
	env, out := newTestEnv(t)

	got, err := run(t, env, out, "credential", "add", "alice")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(got), "\talice"))

	_, err = run(t, env, out, "credential", "add", "alice")
	require.Error(t, err)

	got, err = run(t, env, out, "credential", "list")
	require.NoError(t, err)
	assert.Contains(t, got, "USERNAME")
	assert.Contains(t, got, "alice")
}

func TestPresenceSetGetList(t *testing.T) {
	env, out := newTestEnv(t)

	added, err := run(t, env, out, "credential", "add", "alice")
	require.NoError(t, err)
	id := strings.Fields(added)[0]

	got, err := run(t, env, out, "presence", "set", "alice")
	require.NoError(t, err)
	var p domain.Presence
	require.NoError(t, json.Unmarshal([]byte(got), &p))
	assert.Equal(t, id, p.UserID)
	assert.True(t, p.IsActive)

	_, err = run(t, env, out, "presence", "set", "alice", "--active=false")
	require.NoError(t, err)

	got, err = run(t, env, out, "presence", "get", id)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(got), &p))
	assert.False(t, p.IsActive)

	got, err = run(t, env, out, "presence", "list")
	require.NoError(t, err)
	assert.Contains(t, got, id)
	assert.Contains(t, got, "false")
}

func TestPresenceSet_UnknownUser(t *testing.T) {
	env, out := newTestEnv(t)

	_, err := run(t, env, out, "presence", "set", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
}

func TestTimestamp(t *testing.T) {
	env, out := newTestEnv(t)

	got, err := run(t, env, out, "timestamp")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\+08:00\n$`, got)

	got, err = run(t, env, out, "timestamp", "--offset=-5.5")
	require.NoError(t, err)
	assert.Regexp(t, `-05:30\n$`, got)
}
