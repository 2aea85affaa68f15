// Package store provides a SQLite-backed history of saved scenarios.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// savedAtLayout is fixed-width so saved_at sorts lexically.
const savedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when the history is empty.
var ErrNotFound = errors.New("no saved scenarios")

// Store is the scenario history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at the given path and applies
// pending migrations.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	const operation = "store.Open"

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("%s: creating data dir: %w", operation, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%s: opening db: %w", operation, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const scenarioColumns = `id, name, saved_at, base_minutes, growth_factor,
	baseline_vri_percent, vri_percent, share_basis,
	reference_mode, reference_vri_rate, reference_phone_rate,
	proposed_mode, proposed_vri_rate, proposed_phone_rate,
	baseline_annual, projected_annual, savings_monthly, savings_annual, break_even_rate`

// SaveScenario inserts a record and returns its ID.
func (s *Store) SaveScenario(ctx context.Context, r model.SavedScenario) (int64, error) {
	const operation = "store.SaveScenario"

	if r.SavedAt.IsZero() {
		r.SavedAt = time.Now()
	}

	var breakEven sql.NullFloat64
	if r.BreakEvenRate != nil {
		breakEven = sql.NullFloat64{Float64: *r.BreakEvenRate, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO scenarios
		(name, saved_at, base_minutes, growth_factor,
		 baseline_vri_percent, vri_percent, share_basis,
		 reference_mode, reference_vri_rate, reference_phone_rate,
		 proposed_mode, proposed_vri_rate, proposed_phone_rate,
		 baseline_annual, projected_annual, savings_monthly, savings_annual, break_even_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.SavedAt.UTC().Format(savedAtLayout), r.BaseMinutes, r.GrowthFactor,
		r.BaselineVRIPercent, r.VRIPercent, r.ShareBasis,
		r.ReferenceMode, r.ReferenceVRI, r.ReferencePhone,
		r.ProposedMode, r.ProposedVRI, r.ProposedPhone,
		r.BaselineAnnual, r.ProjectedAnnual, r.SavingsMonthly, r.SavingsAnnual, breakEven,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", operation, err)
	}
	return res.LastInsertId()
}

// ListScenarios returns the most recent records first. A limit <= 0 returns all.
func (s *Store) ListScenarios(ctx context.Context, limit int) ([]model.SavedScenario, error) {
	const operation = "store.ListScenarios"

	query := "SELECT " + scenarioColumns + " FROM scenarios ORDER BY saved_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.SavedScenario
	for rows.Next() {
		r, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", operation, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LatestScenario returns the most recently saved record, or ErrNotFound.
func (s *Store) LatestScenario(ctx context.Context) (model.SavedScenario, error) {
	list, err := s.ListScenarios(ctx, 1)
	if err != nil {
		return model.SavedScenario{}, err
	}
	if len(list) == 0 {
		return model.SavedScenario{}, ErrNotFound
	}
	return list[0], nil
}

// Clear deletes every saved record and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM scenarios")
	if err != nil {
		return 0, fmt.Errorf("store.Clear: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScenario(row scanner) (model.SavedScenario, error) {
	var (
		r         model.SavedScenario
		savedAt   string
		breakEven sql.NullFloat64
	)
	err := row.Scan(
		&r.ID, &r.Name, &savedAt, &r.BaseMinutes, &r.GrowthFactor,
		&r.BaselineVRIPercent, &r.VRIPercent, &r.ShareBasis,
		&r.ReferenceMode, &r.ReferenceVRI, &r.ReferencePhone,
		&r.ProposedMode, &r.ProposedVRI, &r.ProposedPhone,
		&r.BaselineAnnual, &r.ProjectedAnnual, &r.SavingsMonthly, &r.SavingsAnnual, &breakEven,
	)
	if err != nil {
		return r, err
	}
	if t, err := time.Parse(savedAtLayout, savedAt); err == nil {
		r.SavedAt = t
	}
	if breakEven.Valid {
		v := breakEven.Float64
		r.BreakEvenRate = &v
	}
	return r, nil
}
