package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 10

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrBadCredentials = errors.New("invalid credentials")
)

// Credentials registers accounts and checks passwords against their stored
// bcrypt hashes.
type Credentials struct {
	accounts store.AccountStore
	cost     int
}

func NewCredentials(accounts store.AccountStore, cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Credentials{accounts: accounts, cost: cost}
}

// Register stores a new account. An existing account with the same
// username does not prevent registration.
func (c *Credentials) Register(ctx context.Context, username, password string) (model.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash password: %w", err)
	}
	return c.accounts.CreateAccount(ctx, model.Account{
		Username:     username,
		PasswordHash: string(hash),
	})
}

func (c *Credentials) Authenticate(ctx context.Context, username, password string) (*model.Account, error) {
	account, err := c.accounts.FindAccount(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return account, nil
}
