package memory

import (
	"context"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"
)

func (s *Store) CreateTask(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t = t.Clone()
	t.ID = s.nextTaskID(s.now())
	t.Completed = false
	s.tasks = append(s.tasks, t)
	return t.Clone(), nil
}

func (s *Store) ListTasks(_ context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (s *Store) CompleteTask(_ context.Context, id int64) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = true
			out := s.tasks[i].Clone()
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}
