// internal/storage/postgres/client.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stratum-labs/stratum/internal/config"
	"github.com/stratum-labs/stratum/internal/history"
	"github.com/stratum-labs/stratum/internal/models"
	_ "github.com/lib/pq"
)

// Store persists decomposition run records in PostgreSQL. It satisfies
// history.Store so it can stand in for the in-memory ring wherever a
// durable history is wanted.
type Store struct {
	db *sql.DB
}

func NewStore(cfg config.PostgresConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Append(ctx context.Context, rec models.DecompositionRecord) error {
	query := `
		INSERT INTO decomposition_runs
		(id, root_task_id, node_count, level_count, speedup_factor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.RootTaskID,
		rec.NodeCount,
		rec.LevelCount,
		rec.SpeedupFactor,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store decomposition record: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.DecompositionRecord, error) {
	query := `
		SELECT id, root_task_id, node_count, level_count, speedup_factor, created_at
		FROM decomposition_runs
		WHERE id = $1`

	var rec models.DecompositionRecord
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.RootTaskID,
		&rec.NodeCount,
		&rec.LevelCount,
		&rec.SpeedupFactor,
		&rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, history.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *Store) Recent(ctx context.Context, n int) ([]models.DecompositionRecord, error) {
	if n <= 0 {
		n = config.DefaultHistorySize
	}

	query := `
		SELECT id, root_task_id, node_count, level_count, speedup_factor, created_at
		FROM decomposition_runs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.DecompositionRecord
	for rows.Next() {
		var rec models.DecompositionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RootTaskID,
			&rec.NodeCount,
			&rec.LevelCount,
			&rec.SpeedupFactor,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
