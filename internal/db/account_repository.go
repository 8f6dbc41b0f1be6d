package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/TerryHenrard/Pente-game/internal/model"
)

// ErrDuplicateUsername is returned by Insert when the username is taken.
var ErrDuplicateUsername = errors.New("username already exists")

// AccountRepository persists player accounts in the players table. Every
// operation is a single parameterized statement.
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a repository over the given database.
func NewAccountRepository(database *DB) *AccountRepository {
	return &AccountRepository{db: database}
}

const accountColumns = `player_id, username, password, forfeits, wins, losses, played_games, score`

// Insert creates an account with zeroed stats and returns the stored
// record. Returns ErrDuplicateUsername if the name is taken; the conflict
// is detected via INSERT ... ON CONFLICT DO NOTHING and the affected-row
// count, so no separate existence check races with the insert.
func (r *AccountRepository) Insert(ctx context.Context, username, passwordHash string) (*model.Account, error) {
	username = strings.ToLower(username)
	res, err := r.db.sql.ExecContext(ctx,
		`INSERT INTO players (username, password)
		 VALUES (?, ?)
		 ON CONFLICT (username) DO NOTHING`,
		username, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting account %q: %w", username, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking insert of %q: %w", username, err)
	}
	if affected == 0 {
		return nil, ErrDuplicateUsername
	}
	return r.GetByName(ctx, username)
}

// GetByName retrieves an account by username.
// Returns nil, nil if the account does not exist.
func (r *AccountRepository) GetByName(ctx context.Context, username string) (*model.Account, error) {
	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM players WHERE username = ?`,
		strings.ToLower(username),
	)
	return scanAccount(row, username)
}

// GetByID retrieves an account by its numeric id.
// Returns nil, nil if the account does not exist.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	row := r.db.sql.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM players WHERE player_id = ?`, id,
	)
	return scanAccount(row, fmt.Sprintf("id=%d", id))
}

// UpdateStats writes the account's cumulative statistics back to the store.
func (r *AccountRepository) UpdateStats(ctx context.Context, acc *model.Account) error {
	_, err := r.db.sql.ExecContext(ctx,
		`UPDATE players
		 SET forfeits = ?, wins = ?, losses = ?, played_games = ?, score = ?
		 WHERE player_id = ?`,
		acc.Stats.Forfeits, acc.Stats.Wins, acc.Stats.Losses,
		acc.Stats.GamesPlayed, acc.Stats.Score, acc.ID,
	)
	if err != nil {
		return fmt.Errorf("updating stats for %q: %w", acc.Username, err)
	}
	return nil
}

// DeleteByID removes an account. Admin operation, never called by the
// request handlers.
func (r *AccountRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.sql.ExecContext(ctx,
		`DELETE FROM players WHERE player_id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("deleting account id=%d: %w", id, err)
	}
	return nil
}

func scanAccount(row *sql.Row, ref string) (*model.Account, error) {
	var acc model.Account
	err := row.Scan(
		&acc.ID, &acc.Username, &acc.PasswordHash,
		&acc.Stats.Forfeits, &acc.Stats.Wins, &acc.Stats.Losses,
		&acc.Stats.GamesPlayed, &acc.Stats.Score,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying account %s: %w", ref, err)
	}
	return &acc, nil
}
