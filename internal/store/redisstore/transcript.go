// Package redisstore keeps the chat transcript in a Redis list so it can be
// shared by several server processes.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"

	"github.com/redis/go-redis/v9"
)

const DefaultTranscriptKey = "chat:transcript"

// NewClient returns a go-redis client for redisURL (e.g. redis://localhost:6379/0)
// after a successful ping.
func NewClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// TranscriptStore appends turns with RPUSH and reads them back with LRANGE,
// so list order is append order.
type TranscriptStore struct {
	client redis.Cmdable
	key    string
}

func NewTranscriptStore(client redis.Cmdable, key string) *TranscriptStore {
	if key == "" {
		key = DefaultTranscriptKey
	}
	return &TranscriptStore{client: client, key: key}
}

func (s *TranscriptStore) AppendTurn(ctx context.Context, turn model.ChatTurn) error {
	b, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("encode turn: %w", err)
	}
	return s.client.RPush(ctx, s.key, b).Err()
}

func (s *TranscriptStore) ListTurns(ctx context.Context) ([]model.ChatTurn, error) {
	vals, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]model.ChatTurn, 0, len(vals))
	for _, v := range vals {
		var turn model.ChatTurn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		out = append(out, turn)
	}
	return out, nil
}

func (s *TranscriptStore) ClearTurns(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
