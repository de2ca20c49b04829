package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/gemini"
	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls [][]gemini.Content
	reply func(n int, contents []gemini.Content) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, contents []gemini.Content) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, contents)
	n := len(f.calls)
	f.mu.Unlock()
	return f.reply(n, contents)
}

func numberedReplies() *fakeGenerator {
	return &fakeGenerator{reply: func(n int, _ []gemini.Content) (string, error) {
		return fmt.Sprintf("reply%d", n), nil
	}}
}

func TestTaskSummary(t *testing.T) {
	tasks := []model.Task{
		{Title: "A", Completed: true},
		{Title: "B", Completed: false},
	}
	assert.Equal(t, "- A [done]\n- B [pending]", TaskSummary(tasks))
	assert.Equal(t, "- 7 [pending]\n-  [pending]", TaskSummary([]model.Task{
		{Fields: map[string]any{"title": 7}},
		{},
	}))
	assert.Equal(t, NoTasksPlaceholder, TaskSummary(nil))
}

func TestBuildContents_Order(t *testing.T) {
	history := []model.ChatTurn{
		{Role: model.ChatRoleUser, Text: "hello"},
		{Role: model.ChatRoleModel, Text: "hi"},
		{Role: model.ChatRoleUser, Text: "world"},
	}
	contents := BuildContents(history, "- A [done]")

	require.Len(t, contents, 5)
	assert.Equal(t, "user", contents[0].Role)
	assert.Contains(t, contents[0].Parts[0].Text, "well-formatted markdown")
	assert.Equal(t, "user", contents[1].Role)
	assert.Equal(t, "hello", contents[1].Parts[0].Text)
	assert.Equal(t, "model", contents[2].Role)
	assert.Equal(t, "hi", contents[2].Parts[0].Text)
	assert.Equal(t, "world", contents[3].Parts[0].Text)
	assert.Equal(t, "user", contents[4].Role)
	assert.Equal(t, "FYI, here are the user's tasks:\n- A [done]", contents[4].Parts[0].Text)
}

func TestSubmit_TwoTurns(t *testing.T) {
	st := memory.NewStore()
	gen := numberedReplies()
	b := NewBridge(st, st, gen, time.Second, nil)
	ctx := context.Background()

	res, err := b.Submit(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "reply1", res.Reply)

	res, err = b.Submit(ctx, "world")
	require.NoError(t, err)
	assert.Equal(t, "reply2", res.Reply)

	want := []model.ChatTurn{
		{Role: model.ChatRoleUser, Text: "hello"},
		{Role: model.ChatRoleModel, Text: "reply1"},
		{Role: model.ChatRoleUser, Text: "world"},
		{Role: model.ChatRoleModel, Text: "reply2"},
	}
	assert.Equal(t, want, res.History)

	stored, err := b.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, stored)

	// Second call saw system + 3 turns + summary.
	require.Len(t, gen.calls, 2)
	assert.Len(t, gen.calls[1], 5)
}

func TestSubmit_IncludesLiveTasks(t *testing.T) {
	st := memory.NewStore()
	gen := numberedReplies()
	b := NewBridge(st, st, gen, time.Second, nil)
	ctx := context.Background()

	_, err := b.Submit(ctx, "anything?")
	require.NoError(t, err)
	last := gen.calls[0][len(gen.calls[0])-1]
	assert.Equal(t, "FYI, here are the user's tasks:\n"+NoTasksPlaceholder, last.Parts[0].Text)

	task, err := st.CreateTask(ctx, model.Task{Title: "A"})
	require.NoError(t, err)
	_, err = st.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	_, err = st.CreateTask(ctx, model.Task{Title: "B"})
	require.NoError(t, err)

	res, err := b.Submit(ctx, "now?")
	require.NoError(t, err)
	last = gen.calls[1][len(gen.calls[1])-1]
	assert.Equal(t, "FYI, here are the user's tasks:\n- A [done]\n- B [pending]", last.Parts[0].Text)
	assert.Len(t, res.Tasks, 2)
}

func TestSubmit_UpstreamFailureKeepsUserTurnOnly(t *testing.T) {
	st := memory.NewStore()
	gen := &fakeGenerator{reply: func(int, []gemini.Content) (string, error) {
		return "", &gemini.ProviderError{StatusCode: 429, Body: `{"error":"quota"}`}
	}}
	b := NewBridge(st, st, gen, time.Second, nil)
	ctx := context.Background()

	_, err := b.Submit(ctx, "hello")
	require.Error(t, err)

	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, `{"error":"quota"}`, uerr.Detail())

	history, err := b.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ChatTurn{{Role: model.ChatRoleUser, Text: "hello"}}, history)
}

func TestSubmit_MalformedResponseIsUpstreamError(t *testing.T) {
	st := memory.NewStore()
	gen := &fakeGenerator{reply: func(int, []gemini.Content) (string, error) {
		return "", gemini.ErrMalformedResponse
	}}
	b := NewBridge(st, st, gen, time.Second, nil)

	_, err := b.Submit(context.Background(), "hello")
	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.ErrorIs(t, err, gemini.ErrMalformedResponse)
	assert.Equal(t, gemini.ErrMalformedResponse.Error(), uerr.Detail())
}

func TestSubmit_TimeoutAppliedToGenerator(t *testing.T) {
	st := memory.NewStore()

	var deadlineSet bool
	b := NewBridge(st, st, generatorFunc(func(ctx context.Context, _ []gemini.Content) (string, error) {
		_, deadlineSet = ctx.Deadline()
		<-ctx.Done()
		return "", ctx.Err()
	}), 10*time.Millisecond, nil)

	_, err := b.Submit(context.Background(), "slow")
	assert.True(t, deadlineSet)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReset_ClearsTranscript(t *testing.T) {
	st := memory.NewStore()
	b := NewBridge(st, st, numberedReplies(), time.Second, nil)
	ctx := context.Background()

	_, err := b.Submit(ctx, "hello")
	require.NoError(t, err)

	require.NoError(t, b.Reset(ctx))
	history, err := b.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Reset on an empty transcript is fine too.
	require.NoError(t, b.Reset(ctx))
}

func TestSubmit_ConcurrentTurnsAlternate(t *testing.T) {
	st := memory.NewStore()
	b := NewBridge(st, st, generatorFunc(func(ctx context.Context, contents []gemini.Content) (string, error) {
		time.Sleep(time.Millisecond)
		// Echo the latest user message so pairs can be matched.
		return "re:" + contents[len(contents)-2].Parts[0].Text, nil
	}), time.Second, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := b.Submit(ctx, fmt.Sprintf("m%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := b.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 20)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, model.ChatRoleUser, history[i].Role)
		assert.Equal(t, model.ChatRoleModel, history[i+1].Role)
		assert.Equal(t, "re:"+history[i].Text, history[i+1].Text)
	}
}

type generatorFunc func(ctx context.Context, contents []gemini.Content) (string, error)

func (f generatorFunc) Generate(ctx context.Context, contents []gemini.Content) (string, error) {
	return f(ctx, contents)
}
