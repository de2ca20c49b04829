package postgres

import (
	"context"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
)

func (s *Store) AppendTurn(ctx context.Context, turn model.ChatTurn) error {
	_, err := s.pool.Exec(ctx, `
		insert into public.chat_turns (role, text) values ($1, $2)
	`, string(turn.Role), turn.Text)
	return err
}

func (s *Store) ListTurns(ctx context.Context) ([]model.ChatTurn, error) {
	rows, err := s.pool.Query(ctx, `
		select role, text from public.chat_turns order by seq asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ChatTurn{}
	for rows.Next() {
		var role, text string
		if err := rows.Scan(&role, &text); err != nil {
			return nil, err
		}
		out = append(out, model.ChatTurn{Role: model.ChatRole(role), Text: text})
	}
	return out, rows.Err()
}

func (s *Store) ClearTurns(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `delete from public.chat_turns`)
	return err
}
