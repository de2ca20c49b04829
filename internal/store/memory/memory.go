package memory

import (
	"sync"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
)

type Store struct {
	mu sync.Mutex

	accounts []model.Account
	tasks    []model.Task
	turns    []model.ChatTurn

	lastTaskID int64
	now        func() time.Time
}

type Option func(*Store)

// WithClock replaces the time source used for task ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
