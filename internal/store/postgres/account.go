package postgres

import (
	"context"
	"errors"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	var out model.Account
	err := s.pool.QueryRow(ctx, `
		insert into public.accounts (id, username, password_hash)
		values ($1::uuid, $2, $3)
		returning id::text, username, password_hash, created_at
	`, uuid.NewString(), a.Username, a.PasswordHash).Scan(
		&out.ID,
		&out.Username,
		&out.PasswordHash,
		&out.CreatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}
	return out, nil
}

func (s *Store) FindAccount(ctx context.Context, username string) (*model.Account, error) {
	var a model.Account
	err := s.pool.QueryRow(ctx, `
		select id::text, username, password_hash, created_at
		from public.accounts
		where username = $1
		order by seq asc
		limit 1
	`, username).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
