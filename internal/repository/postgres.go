package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"catalog/harvester/internal/domain"
)

// execer is satisfied by *pgxpool.Pool.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type postgresRepository struct {
	db    execer
	table string
}

func NewPostgresRepository(db execer, table string) ProductRepository {
	return &postgresRepository{
		db:    db,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// EnsureSchema creates the records table when it does not exist yet.
func EnsureSchema(ctx context.Context, db execer, table string) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, pgx.Identifier{table}.Sanitize())

	if _, err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func (r *postgresRepository) SaveProduct(ctx context.Context, record *domain.ProductRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode product %s: %w", record.ProductID, err)
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (id, name, data) 
	VALUES ($1, $2, $3) 
	ON CONFLICT (id) 
	DO UPDATE SET name = $2, data = $3, updated_at = now()`, r.table)
	_, err = r.db.Exec(ctx, query, record.ProductID, record.Name, data)
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", record.ProductID, err)
	}

	return nil
}
