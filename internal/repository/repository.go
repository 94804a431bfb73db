package repository

import (
	"context"
	"database/sql"
	"time"

	"geothermal_cycles/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// RunRepo stores solve records.
type RunRepo interface {
	Append(ctx context.Context, rec models.SolveRecord) (models.SolveRecord, error)
	List(ctx context.Context, from, to time.Time, status string) ([]models.SolveRecord, error)
	Get(ctx context.Context, id string) (*models.SolveRecord, error)
}

// SummaryRepo keeps the single aggregate row over all solves.
type SummaryRepo interface {
	Save(ctx context.Context, s models.RunSummary) error
	Load(ctx context.Context) (models.RunSummary, error)
}

type Repository struct {
	Runs    RunRepo
	Summary SummaryRepo
	Auth    Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Runs:    NewRunSQLite(db),
		Summary: NewSummarySQLite(db),
		Auth:    NewUserRepository(db),
	}
}
