package memory

import (
	"context"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
)

func (s *Store) AppendTurn(_ context.Context, turn model.ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turn)
	return nil
}

func (s *Store) ListTurns(_ context.Context) ([]model.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out, nil
}

func (s *Store) ClearTurns(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
	return nil
}
