// Package store persists game snapshots in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benbeisheim/chessington/internal/model"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("snapshot not found")

const schema = `CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	placement  TEXT NOT NULL,
	to_move    TEXT NOT NULL,
	white      TEXT NOT NULL DEFAULT '',
	black      TEXT NOT NULL DEFAULT '',
	last_move  TEXT NOT NULL DEFAULT '',
	updated_at INTEGER NOT NULL
)`

// addLastMove upgrades databases created before last_move existed.
const addLastMove = `ALTER TABLE games ADD COLUMN last_move TEXT NOT NULL DEFAULT ''`

type SQLiteStore struct {
	db *sql.DB
}

func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// A single connection keeps writes serialized.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(addLastMove); err != nil && !strings.Contains(err.Error(), "duplicate column") {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts the snapshot. A snapshot older than the stored row is
// ignored, so saves that finish out of order keep the newest position.
func (s *SQLiteStore) Save(ctx context.Context, snap model.Snapshot) error {
	lastMove := ""
	if snap.LastMove != nil {
		data, err := json.Marshal(snap.LastMove)
		if err != nil {
			return fmt.Errorf("encode last move for %s: %w", snap.GameID, err)
		}
		lastMove = string(data)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO games (id, placement, to_move, white, black, last_move, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			placement = excluded.placement,
			to_move = excluded.to_move,
			white = excluded.white,
			black = excluded.black,
			last_move = excluded.last_move,
			updated_at = excluded.updated_at
		WHERE excluded.updated_at >= games.updated_at`,
		snap.GameID, snap.Placement, string(snap.ToMove), snap.White, snap.Black, lastMove, snap.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("save game %s: %w", snap.GameID, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, id string) (model.Snapshot, error) {
	var (
		snap     model.Snapshot
		toMove   string
		lastMove string
		updated  int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, placement, to_move, white, black, last_move, updated_at FROM games WHERE id = ?", id,
	).Scan(&snap.GameID, &snap.Placement, &toMove, &snap.White, &snap.Black, &lastMove, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("load game %s: %w", id, err)
	}
	if lastMove != "" {
		snap.LastMove = &model.LastMove{}
		if err := json.Unmarshal([]byte(lastMove), snap.LastMove); err != nil {
			return model.Snapshot{}, fmt.Errorf("decode last move for %s: %w", id, err)
		}
	}
	snap.ToMove = model.Player(toMove)
	snap.UpdatedAt = time.Unix(0, updated)
	return snap, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
