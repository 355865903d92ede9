package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Reliefmesh/api/internal/terrain"
	"github.com/charmbracelet/log"
)

// SQLiteStore persists heightmaps as one row per document in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database handle. Schema is managed by the
// migrations in internal/db/migrations.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Store(ctx context.Context, key string, hm *terrain.Heightmap, overwrite bool) error {
	log.Debug("storing heightmap", "key", key, "seed", hm.Seed, "cells", len(hm.Grid.Cells), "overwrite", overwrite)

	configJSON, err := json.Marshal(hm.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM heightmaps WHERE key = ?`, key).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if exists > 0 {
		if !overwrite {
			return fmt.Errorf("%w: key %q", ErrConflict, key)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM heightmaps WHERE key = ?`, key); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO heightmaps (key, id, seed, width, height, config, grid, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key, hm.ID, hm.Seed, hm.Grid.Width, hm.Grid.Height, string(configJSON),
		encodeCells(hm.Grid.Cells), hm.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	log.Info("heightmap stored", "key", key, "id", hm.ID)
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (*terrain.Heightmap, error) {
	log.Debug("loading heightmap", "key", key)

	var (
		id         string
		seed       int64
		width      int
		height     int
		configJSON string
		gridBlob   []byte
		createdAt  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, seed, width, height, config, grid, created_at FROM heightmaps WHERE key = ?`, key,
	).Scan(&id, &seed, &width, &height, &configJSON, &gridBlob, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var cfg terrain.Config
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return nil, fmt.Errorf("%w: bad config for key %q: %v", ErrCorrupt, key, err)
	}

	cells, err := decodeCells(gridBlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(cells) != width*height || cfg.Width != width || cfg.Height != height {
		return nil, fmt.Errorf("%w: stored grid dimensions do not match config for key %q", ErrCorrupt, key)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp for key %q: %v", ErrCorrupt, key, err)
	}

	return &terrain.Heightmap{
		ID:        id,
		Name:      key,
		Seed:      seed,
		Config:    cfg,
		Grid:      &terrain.HeightGrid{Width: width, Height: height, Cells: cells},
		CreatedAt: ts,
	}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM heightmaps ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return keys, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM heightmaps WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: key %q", ErrNotFound, key)
	}
	log.Info("heightmap deleted", "key", key)
	return nil
}
