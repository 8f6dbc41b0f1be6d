package server

import (
	"context"

	"github.com/TerryHenrard/Pente-game/internal/model"
)

// AccountRepository is the persistence boundary the handlers depend on.
// Implemented by db.AccountRepository; mocked in tests.
type AccountRepository interface {
	// Insert creates an account with zeroed stats. Returns
	// db.ErrDuplicateUsername when the name is taken.
	Insert(ctx context.Context, username, passwordHash string) (*model.Account, error)

	// GetByName returns nil, nil if the account does not exist.
	GetByName(ctx context.Context, username string) (*model.Account, error)

	// UpdateStats persists the account's cumulative statistics.
	UpdateStats(ctx context.Context, acc *model.Account) error
}
