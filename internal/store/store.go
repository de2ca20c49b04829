package store

import (
	"context"
	"errors"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
)

var ErrNotFound = errors.New("not_found")

// AccountStore holds registered accounts. Usernames are not unique; lookups
// return the earliest account with an exactly matching username.
type AccountStore interface {
	CreateAccount(ctx context.Context, a model.Account) (model.Account, error)
	FindAccount(ctx context.Context, username string) (*model.Account, error)
}

// TaskStore is the shared task list. Ids are strictly increasing in
// creation order.
type TaskStore interface {
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	CompleteTask(ctx context.Context, id int64) (*model.Task, error)
}

// TranscriptStore is the append-only chat history.
type TranscriptStore interface {
	AppendTurn(ctx context.Context, turn model.ChatTurn) error
	ListTurns(ctx context.Context) ([]model.ChatTurn, error)
	ClearTurns(ctx context.Context) error
}

type Store interface {
	AccountStore
	TaskStore
	TranscriptStore
}
