package service

import (
	"context"
	"time"

	"geothermal_cycles/internal/exchanger"
	"geothermal_cycles/internal/logger"
	"geothermal_cycles/internal/models"
	"geothermal_cycles/internal/repository"
	"geothermal_cycles/internal/thermo"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Exchanger solves heat-exchanger requests.
type Exchanger interface {
	Solve(ctx context.Context, req SolveRequest) (models.SolveRecord, error)
}

// RunLog exposes the persisted solve history.
type RunLog interface {
	ListRuns(ctx context.Context, f RunFilter) ([]models.SolveRecord, error)
	GetRun(ctx context.Context, id string) (models.SolveRecord, error)
}

// Summary exposes the aggregate over all solves.
type Summary interface {
	GetSummary(ctx context.Context) (models.RunSummary, error)
}

// Fluids exposes the registered Property Engines.
type Fluids interface {
	ListFluids() []FluidInfo
	LookupFluid(name string) (thermo.Fluid, error)
}

// Feed streams completed solves to live listeners.
type Feed interface {
	Subscribe() (<-chan models.SolveRecord, func())
}

type Service struct {
	Exchanger
	RunLog
	Summary
	Fluids
	Feed
	Authorization
}

// Deps carries the settings the services need besides storage.
type Deps struct {
	Exchanger      exchanger.Config
	UTable         *exchanger.UTable
	FluidCacheSize int
	FeedBuffer     int
	JWTKey         string
	TokenTTL       time.Duration
	Log            *logger.Logger
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps) (*Service, error) {
	fluids, err := NewFluidService(deps.FluidCacheSize)
	if err != nil {
		return nil, err
	}
	auth, err := NewAuthService(repos.Auth, deps.JWTKey, deps.TokenTTL)
	if err != nil {
		return nil, err
	}
	summary := NewSummaryService(repos.Summary)
	feed := NewFeedHub(deps.FeedBuffer)
	return &Service{
		Exchanger:     NewExchangerService(deps.Exchanger, deps.UTable, fluids, repos.Runs, summary, feed, deps.Log),
		RunLog:        NewRunLogService(repos.Runs),
		Summary:       summary,
		Fluids:        fluids,
		Feed:          feed,
		Authorization: auth,
	}, nil
}
