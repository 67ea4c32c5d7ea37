package repository

import (
	"context"
	"fmt"

	"prompt_galeri/internal/storage/postgresql"
)

type Repository struct {
	db     *postgresql.Storage
	Prompt PromptRepository
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := postgresql.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		db:     db,
		Prompt: NewPromptRepository(db.Pool()),
	}, nil
}

// HealthCheck pings the underlying database.
func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

func (r *Repository) Close() {
	r.db.Stop()
}
