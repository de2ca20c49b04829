package redisstore

import (
	"context"
	"testing"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ store.TranscriptStore = (*TranscriptStore)(nil)

func newTestStore(t *testing.T) (*TranscriptStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTranscriptStore(client, ""), mr
}

func TestTranscriptStore_PreservesOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	turns := []model.ChatTurn{
		{Role: model.ChatRoleUser, Text: "hello"},
		{Role: model.ChatRoleModel, Text: "hi there"},
		{Role: model.ChatRoleUser, Text: "world"},
	}
	for _, turn := range turns {
		require.NoError(t, s.AppendTurn(ctx, turn))
	}

	got, err := s.ListTurns(ctx)
	require.NoError(t, err)
	assert.Equal(t, turns, got)
}

func TestTranscriptStore_EmptyAndClear(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	got, err := s.ListTurns(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.AppendTurn(ctx, model.ChatTurn{Role: model.ChatRoleUser, Text: "x"}))
	assert.True(t, mr.Exists(DefaultTranscriptKey))

	require.NoError(t, s.ClearTurns(ctx))
	assert.False(t, mr.Exists(DefaultTranscriptKey))

	got, err = s.ListTurns(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTranscriptStore_CorruptEntry(t *testing.T) {
	s, mr := newTestStore(t)

	_, err := mr.Push(DefaultTranscriptKey, "not-json")
	require.NoError(t, err)

	_, err = s.ListTurns(context.Background())
	assert.Error(t, err)
}

func TestNewClient_EmptyURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
}

func TestNewClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
