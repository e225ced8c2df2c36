package postgres

import (
	"context"
	"fmt"

	"github.com/openml-labs/runeval/internal/domain"
	"github.com/openml-labs/runeval/internal/repo"
)

type EvaluationStore struct {
	db DB
}

func NewEvaluationStore(db DB) *EvaluationStore {
	if db == nil {
		return nil
	}
	return &EvaluationStore{db: db}
}

func (s *EvaluationStore) StoreEvaluation(ctx context.Context, result domain.EvaluationResult) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("evaluation store not initialized")
	}
	if err := result.Validate(); err != nil {
		return err
	}
	perFoldJSON, err := encodePerFold(result.PerFold)
	if err != nil {
		return fmt.Errorf("encode per_fold: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO evaluation (run_id, function, value, per_fold)
		 VALUES ($1, $2, $3, $4)`,
		result.RunID,
		result.Measure,
		result.Value,
		perFoldJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: run %d measure %q", repo.ErrDuplicateEvaluation, result.RunID, result.Measure)
		}
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (s *EvaluationStore) ListEvaluations(ctx context.Context, runID int64) ([]domain.EvaluationResult, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("evaluation store not initialized")
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, function, value, per_fold
		 FROM evaluation
		 WHERE run_id = $1
		 ORDER BY function`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.EvaluationResult
	for rows.Next() {
		var r domain.EvaluationResult
		var perFoldJSON []byte
		if err := rows.Scan(&r.RunID, &r.Measure, &r.Value, &perFoldJSON); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		perFold, err := decodePerFold(perFoldJSON)
		if err != nil {
			return nil, fmt.Errorf("decode per_fold: %w", err)
		}
		r.PerFold = perFold
		out = append(out, r)
	}
	return out, rows.Err()
}
