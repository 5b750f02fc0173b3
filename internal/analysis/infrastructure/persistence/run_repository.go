// Package persistence stores analysis runs in PostgreSQL or SQLite.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const insertRunSQL = `
	INSERT INTO analysis_runs (
		id, strategy, applied_strategy, total_tasks, top_titles,
		cycles, results, source, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectRunColumns = `
	SELECT id, strategy, applied_strategy, total_tasks, top_titles,
	       cycles, results, source, created_at
	FROM analysis_runs`

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 20

// SQLRunRepository implements domain.RunRepository for both drivers. Top
// titles are a native TEXT[] on PostgreSQL and a JSON array on SQLite.
type SQLRunRepository struct {
	conn database.Connection
}

// NewSQLRunRepository creates a run repository.
func NewSQLRunRepository(conn database.Connection) *SQLRunRepository {
	return &SQLRunRepository{conn: conn}
}

func (r *SQLRunRepository) q(query string) string {
	return database.Rebind(r.conn.Driver(), query)
}

func (r *SQLRunRepository) postgres() bool {
	return r.conn.Driver() == database.DriverPostgres
}

// Save stores a run, inside the caller's transaction when there is one.
func (r *SQLRunRepository) Save(ctx context.Context, run *domain.AnalysisRun) error {
	cycles, err := json.Marshal(run.Cycles())
	if err != nil {
		return fmt.Errorf("encode cycles: %w", err)
	}

	var titles any = run.TopTitles()
	if !r.postgres() {
		encoded, err := json.Marshal(run.TopTitles())
		if err != nil {
			return fmt.Errorf("encode top titles: %w", err)
		}
		titles = string(encoded)
	}

	results := string(run.Results())
	if results == "" {
		results = "[]"
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err = exec.Exec(ctx, r.q(insertRunSQL),
		run.ID().String(),
		run.Strategy(),
		run.AppliedStrategy(),
		run.TotalTasks(),
		titles,
		string(cycles),
		results,
		run.Source(),
		run.CreatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert analysis run %s: %w", run.ID(), err)
	}
	return nil
}

// FindByID returns domain.ErrRunNotFound when no run has id.
func (r *SQLRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, r.q(selectRunColumns+` WHERE id = ?`), id.String())

	run, err := r.scan(row)
	if database.IsNoRows(err) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns up to limit runs, newest first.
func (r *SQLRunRepository) List(ctx context.Context, limit int) ([]*domain.AnalysisRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, r.q(selectRunColumns+` ORDER BY created_at DESC, id LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs: %w", err)
	}
	defer rows.Close()

	runs := []*domain.AnalysisRun{}
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLRunRepository) scan(row database.Row) (*domain.AnalysisRun, error) {
	var (
		rawID           string
		strategy        string
		appliedStrategy string
		totalTasks      int
		titlesText      string
		titles          []string
		cyclesText      string
		resultsText     string
		source          string
		createdAt       time.Time
	)

	var titlesDest any = &titlesText
	if r.postgres() {
		titlesDest = pq.Array(&titles)
	}

	err := row.Scan(&rawID, &strategy, &appliedStrategy, &totalTasks, titlesDest,
		&cyclesText, &resultsText, &source, &createdAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan analysis run: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", rawID, err)
	}

	if !r.postgres() {
		if err := json.Unmarshal([]byte(titlesText), &titles); err != nil {
			return nil, fmt.Errorf("decode run %s top titles: %w", id, err)
		}
	}

	var cycles []domain.Cycle
	if err := json.Unmarshal([]byte(cyclesText), &cycles); err != nil {
		return nil, fmt.Errorf("decode run %s cycles: %w", id, err)
	}

	return domain.RehydrateAnalysisRun(
		id,
		strategy,
		appliedStrategy,
		totalTasks,
		titles,
		cycles,
		json.RawMessage(resultsText),
		source,
		createdAt,
	), nil
}
