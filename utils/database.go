package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bombsquad/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	accountsTable = "accounts"
	colPlayerID   = "player_id"
	colBalance    = "balance"
	colScore      = "score"
	colInventory  = "inventory"
)

// PostgresStore keeps accounts in PostgreSQL
type PostgresStore struct {
	pool            *pgxpool.Pool
	sb              sq.StatementBuilderType
	startingBalance int64
}

// SetupDatabase initializes the connection pool and ensures the schema exists
func SetupDatabase(ctx context.Context, databaseURL string, startingBalance int64) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 45 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second
	config.ConnConfig.RuntimeParams = map[string]string{
		"application_name":  "bombsquad-bot",
		"timezone":          "UTC",
		"statement_timeout": "30s",
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	conn.Release()

	s := &PostgresStore{
		pool:            pool,
		sb:              sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		startingBalance: startingBalance,
	}
	if err := s.createAccountsTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Get loads an account, falling back to the default account for unknown players
func (s *PostgresStore) Get(ctx context.Context, playerID int64) (*models.Account, error) {
	query, args, err := s.sb.
		Select(colPlayerID, colBalance, colScore, colInventory).
		From(accountsTable).
		Where(sq.Eq{colPlayerID: playerID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	acc := &models.Account{}
	var raw []byte
	err = s.pool.QueryRow(ctx, query, args...).Scan(&acc.PlayerID, &acc.Balance, &acc.Score, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewAccount(playerID, s.startingBalance), nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	acc.Inventory = decodeInventory(raw)
	return acc, nil
}

// Put upserts the account row
func (s *PostgresStore) Put(ctx context.Context, playerID int64, acc *models.Account) error {
	inv, err := encodeInventory(acc.Inventory)
	if err != nil {
		return err
	}

	query, args, err := s.sb.
		Insert(accountsTable).
		Columns(colPlayerID, colBalance, colScore, colInventory).
		Values(playerID, acc.Balance, acc.Score, inv).
		Suffix(`ON CONFLICT (player_id) DO UPDATE SET
			balance = EXCLUDED.balance,
			score = EXCLUDED.score,
			inventory = EXCLUDED.inventory,
			updated_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// Top returns the leaderboard rows
func (s *PostgresStore) Top(ctx context.Context, limit int) ([]*models.Account, error) {
	builder := s.sb.
		Select(colPlayerID, colBalance, colScore, colInventory).
		From(accountsTable).
		OrderBy(colScore+" DESC", colPlayerID)
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	out := []*models.Account{}
	for rows.Next() {
		acc := &models.Account{}
		var raw []byte
		if err := rows.Scan(&acc.PlayerID, &acc.Balance, &acc.Score, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		acc.Inventory = decodeInventory(raw)
		out = append(out, acc)
	}
	return out, rows.Err()
}

// createAccountsTable creates the accounts table if it does not exist
func (s *PostgresStore) createAccountsTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS accounts (
		player_id BIGINT PRIMARY KEY,
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
		score BIGINT NOT NULL DEFAULT 0 CHECK (score >= 0),
		inventory JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_score_desc ON accounts(score DESC, player_id);`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create accounts table: %w", err)
	}
	return nil
}

func encodeInventory(inv []string) (string, error) {
	if inv == nil {
		inv = []string{}
	}
	b, err := json.Marshal(inv)
	if err != nil {
		return "", fmt.Errorf("encode inventory: %w", err)
	}
	return string(b), nil
}

// decodeInventory never fails; a corrupt column reads as an empty inventory
func decodeInventory(raw []byte) []string {
	inv := []string{}
	if len(raw) == 0 {
		return inv
	}
	if err := json.Unmarshal(raw, &inv); err != nil {
		L().Warn("discarding unreadable inventory", zap.ByteString("raw", raw), zap.Error(err))
		return []string{}
	}
	return inv
}
