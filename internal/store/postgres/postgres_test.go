package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ store.Store = (*Store)(nil)

// setupTestDB connects to DATABASE_URL and resets the tables used by the
// store. Tests are skipped when DATABASE_URL is not set.
func setupTestDB(t *testing.T) *Store {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping PostgreSQL tests")
	}

	s, err := NewStore(databaseURL)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	ctx := context.Background()
	_, err = s.pool.Exec(ctx, `
		drop table if exists public.accounts;
		drop table if exists public.tasks;
		drop table if exists public.chat_turns;
	`)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestPostgresAccounts(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	first, err := s.CreateAccount(ctx, model.Account{Username: "alice", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = s.CreateAccount(ctx, model.Account{Username: "alice", PasswordHash: "h2"})
	require.NoError(t, err)

	got, err := s.FindAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.PasswordHash)

	_, err = s.FindAccount(ctx, "ALICE")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresTasks(t *testing.T) {
	s := setupTestDB(t)
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	ctx := context.Background()

	a, err := s.CreateTask(ctx, model.Task{Title: "a", Fields: map[string]any{"owner": "alice"}})
	require.NoError(t, err)
	b, err := s.CreateTask(ctx, model.Task{Title: "b"})
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)
	assert.Equal(t, "alice", a.Fields["owner"])

	done, err := s.CompleteTask(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	list, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Completed)
	assert.False(t, list[1].Completed)

	_, err = s.CompleteTask(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresTranscript(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.AppendTurn(ctx, model.ChatTurn{Role: model.ChatRoleUser, Text: "hi"}))
	require.NoError(t, s.AppendTurn(ctx, model.ChatTurn{Role: model.ChatRoleModel, Text: "hello"}))

	turns, err := s.ListTurns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ChatTurn{
		{Role: model.ChatRoleUser, Text: "hi"},
		{Role: model.ChatRoleModel, Text: "hello"},
	}, turns)

	require.NoError(t, s.ClearTurns(ctx))
	turns, err = s.ListTurns(ctx)
	require.NoError(t, err)
	assert.Empty(t, turns)
}
