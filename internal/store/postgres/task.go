package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"

	"github.com/jackc/pgx/v5"
)

// taskIDLock serializes id allocation across connections.
const taskIDLock = 0x7461736b

func (s *Store) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	fieldsJSON := []byte(`{}`)
	if len(t.Fields) > 0 {
		b, err := json.Marshal(t.Fields)
		if err != nil {
			return model.Task{}, fmt.Errorf("encode task fields: %w", err)
		}
		fieldsJSON = b
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Task{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock($1)`, taskIDLock); err != nil {
		return model.Task{}, err
	}

	row := tx.QueryRow(ctx, `
		insert into public.tasks (id, title, completed, fields)
		values (greatest($1::bigint, coalesce((select max(id) from public.tasks), 0) + 1), $2, false, $3::jsonb)
		returning id, title, completed, fields
	`, s.now().UnixMilli(), t.Title, string(fieldsJSON))

	out, err := scanTask(row)
	if err != nil {
		return model.Task{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx, `
		select id, title, completed, fields
		from public.tasks
		order by id asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CompleteTask(ctx context.Context, id int64) (*model.Task, error) {
	row := s.pool.QueryRow(ctx, `
		update public.tasks
		set completed = true
		where id = $1
		returning id, title, completed, fields
	`, id)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var (
		t          model.Task
		fieldsJSON []byte
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &fieldsJSON); err != nil {
		return model.Task{}, err
	}
	if len(fieldsJSON) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(fieldsJSON, &fields); err != nil {
			return model.Task{}, fmt.Errorf("decode task fields: %w", err)
		}
		if len(fields) > 0 {
			t.Fields = fields
		}
	}
	return t, nil
}
