package domain

import (
	"context"

	"github.com/google/uuid"
)

// RunRepository persists analysis runs.
type RunRepository interface {
	// Save stores a new run.
	Save(ctx context.Context, run *AnalysisRun) error

	// FindByID returns ErrRunNotFound when the run does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*AnalysisRun, error)

	// List returns the most recent runs first.
	List(ctx context.Context, limit int) ([]*AnalysisRun, error)
}
