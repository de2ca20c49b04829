package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/gemini"
	"github.com/ShivanshKaul/ai-task-backend/internal/logging"
	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"
)

// Generator produces a model reply for a conversation payload.
type Generator interface {
	Generate(ctx context.Context, contents []gemini.Content) (string, error)
}

// UpstreamError reports a failed generator call.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "upstream: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Detail is the upstream failure as reported to API clients: the provider's
// response body when there is one, otherwise the error text.
func (e *UpstreamError) Detail() string {
	var perr *gemini.ProviderError
	if errors.As(e.Err, &perr) && perr.Body != "" {
		return perr.Body
	}
	return e.Err.Error()
}

type Result struct {
	Reply   string
	History []model.ChatTurn
	Tasks   []model.Task
}

// Bridge runs chat turns against the shared transcript. Turns are
// serialized: the lock is held from the user append until the model append
// (or failure), so the transcript always alternates user/model.
type Bridge struct {
	mu sync.Mutex

	tasks      store.TaskStore
	transcript store.TranscriptStore
	gen        Generator
	timeout    time.Duration
	log        logging.Logger
}

func NewBridge(tasks store.TaskStore, transcript store.TranscriptStore, gen Generator, timeout time.Duration, log logging.Logger) *Bridge {
	if log == nil {
		log = logging.Discard()
	}
	return &Bridge{
		tasks:      tasks,
		transcript: transcript,
		gen:        gen,
		timeout:    timeout,
		log:        log.With("component", "chat"),
	}
}

func (b *Bridge) Submit(ctx context.Context, message string) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	userTurn := model.ChatTurn{Role: model.ChatRoleUser, Text: message}
	if err := b.transcript.AppendTurn(ctx, userTurn); err != nil {
		return nil, fmt.Errorf("append user turn: %w", err)
	}

	tasks, err := b.tasks.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	history, err := b.transcript.ListTurns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}

	contents := BuildContents(history, TaskSummary(tasks))

	genCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := b.gen.Generate(genCtx, contents)
	if err != nil {
		uerr := &UpstreamError{Err: err}
		b.log.Error(ctx, "generate failed", "err", err, "detail", uerr.Detail(), "elapsed", time.Since(start))
		return nil, uerr
	}
	b.log.Debug(ctx, "generate done", "turns", len(history), "tasks", len(tasks), "elapsed", time.Since(start))

	modelTurn := model.ChatTurn{Role: model.ChatRoleModel, Text: reply}
	if err := b.transcript.AppendTurn(ctx, modelTurn); err != nil {
		return nil, fmt.Errorf("append model turn: %w", err)
	}

	return &Result{
		Reply:   reply,
		History: append(history, modelTurn),
		Tasks:   tasks,
	}, nil
}

// Reset clears the transcript. It waits for an in-flight turn to finish.
func (b *Bridge) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.transcript.ClearTurns(ctx)
}

func (b *Bridge) History(ctx context.Context) ([]model.ChatTurn, error) {
	return b.transcript.ListTurns(ctx)
}
