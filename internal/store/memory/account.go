package memory

import (
	"context"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"

	"github.com/google/uuid"
)

func (s *Store) CreateAccount(_ context.Context, a model.Account) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = uuid.NewString()
	a.CreatedAt = s.now().UTC()
	s.accounts = append(s.accounts, a)
	return a, nil
}

func (s *Store) FindAccount(_ context.Context, username string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}
