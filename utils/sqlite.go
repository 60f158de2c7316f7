package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bombsquad/models"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const playersTable = "players"

// SQLiteStore keeps accounts in a single SQLite file
type SQLiteStore struct {
	db              *sql.DB
	sb              sq.StatementBuilderType
	startingBalance int64
}

// OpenSQLite opens (or creates) the database at path and ensures the players table
func OpenSQLite(ctx context.Context, path string, startingBalance int64) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer keeps SQLITE_BUSY out of the game loop
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 0,
		score INTEGER NOT NULL DEFAULT 0,
		inventory TEXT NOT NULL DEFAULT '[]'
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create players table: %w", err)
	}

	return &SQLiteStore{
		db:              db,
		sb:              sq.StatementBuilder.PlaceholderFormat(sq.Question),
		startingBalance: startingBalance,
	}, nil
}

// Close closes the SQLite handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, playerID int64) (*models.Account, error) {
	query, args, err := s.sb.
		Select("id", colBalance, colScore, colInventory).
		From(playersTable).
		Where(sq.Eq{"id": playerID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	acc := &models.Account{}
	var raw string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&acc.PlayerID, &acc.Balance, &acc.Score, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewAccount(playerID, s.startingBalance), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", playerID, err)
	}
	acc.Inventory = decodeInventory([]byte(raw))
	return acc, nil
}

func (s *SQLiteStore) Put(ctx context.Context, playerID int64, acc *models.Account) error {
	inv, err := encodeInventory(acc.Inventory)
	if err != nil {
		return err
	}
	query, args, err := s.sb.
		Insert(playersTable).
		Options("OR REPLACE").
		Columns("id", colBalance, colScore, colInventory).
		Values(playerID, acc.Balance, acc.Score, inv).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save player %d: %w", playerID, err)
	}
	return nil
}

func (s *SQLiteStore) Top(ctx context.Context, limit int) ([]*models.Account, error) {
	builder := s.sb.
		Select("id", colBalance, colScore, colInventory).
		From(playersTable).
		OrderBy(colScore+" DESC", "id")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	out := []*models.Account{}
	for rows.Next() {
		acc := &models.Account{}
		var raw string
		if err := rows.Scan(&acc.PlayerID, &acc.Balance, &acc.Score, &raw); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		acc.Inventory = decodeInventory([]byte(raw))
		out = append(out, acc)
	}
	return out, rows.Err()
}
