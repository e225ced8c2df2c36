package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openml-labs/runeval/internal/domain"
	"github.com/openml-labs/runeval/internal/repo"
)

// TxDB is a DB that can also open transactions. *sql.DB satisfies it.
type TxDB interface {
	DB
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProcessingStore struct {
	db TxDB
}

func NewProcessingStore(db TxDB) *ProcessingStore {
	if db == nil {
		return nil
	}
	return &ProcessingStore{db: db}
}

func (s *ProcessingStore) Enqueue(ctx context.Context, runID int64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("processing store not initialized")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO processing_run (run_id, status, date)
		 VALUES ($1, $2, $3)`,
		runID,
		domain.ProcessingPending,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("enqueue run %d: %w", runID, err)
	}
	return nil
}

func (s *ProcessingStore) GetPending(ctx context.Context) ([]int64, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("processing store not initialized")
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id
		 FROM processing_run
		 WHERE status = $1
		 ORDER BY date ASC`,
		domain.ProcessingPending,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []int64
	for rows.Next() {
		var runID int64
		if err := rows.Scan(&runID); err != nil {
			return nil, fmt.Errorf("scan pending: %w", err)
		}
		out = append(out, runID)
	}
	return out, rows.Err()
}

func (s *ProcessingStore) Claim(ctx context.Context, runID int64) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("processing store not initialized")
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE processing_run
		 SET status = $1
		 WHERE run_id = $2 AND status = $3`,
		domain.ProcessingInProgress,
		runID,
		domain.ProcessingPending,
	)
	if err != nil {
		return false, fmt.Errorf("claim run %d: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *ProcessingStore) MarkDone(ctx context.Context, runID int64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("processing store not initialized")
	}
	return markDone(ctx, s.db, runID)
}

func (s *ProcessingStore) MarkError(ctx context.Context, runID int64, message string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("processing store not initialized")
	}
	if message == "" {
		return fmt.Errorf("error message is required")
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE processing_run
		 SET status = $1, error = $2
		 WHERE run_id = $3`,
		domain.ProcessingError,
		message,
		runID,
	)
	if err != nil {
		return fmt.Errorf("mark error run %d: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// FinishDone commits the run's evaluation rows and the done transition
// atomically. A failure anywhere rolls the whole entry back to its claimed
// state so a later drain can retry it.
func (s *ProcessingStore) FinishDone(ctx context.Context, runID int64, results []domain.EvaluationResult) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("processing store not initialized")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finish tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	evals := NewEvaluationStore(tx)
	for _, result := range results {
		if err := evals.StoreEvaluation(ctx, result); err != nil {
			return err
		}
	}
	if err := markDone(ctx, tx, runID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finish tx: %w", err)
	}
	return nil
}

func (s *ProcessingStore) GetEntry(ctx context.Context, runID int64) (domain.ProcessingEntry, error) {
	if s == nil || s.db == nil {
		return domain.ProcessingEntry{}, fmt.Errorf("processing store not initialized")
	}
	var entry domain.ProcessingEntry
	var errMsg sql.NullString
	row := s.db.QueryRowContext(
		ctx,
		`SELECT run_id, status, date, error FROM processing_run WHERE run_id = $1`,
		runID,
	)
	if err := row.Scan(&entry.RunID, &entry.Status, &entry.CreatedAt, &errMsg); err != nil {
		return domain.ProcessingEntry{}, handleNotFound(err)
	}
	if errMsg.Valid {
		entry.ErrorMessage = errMsg.String
	}
	return entry, nil
}

func markDone(ctx context.Context, db DB, runID int64) error {
	res, err := db.ExecContext(
		ctx,
		`UPDATE processing_run
		 SET status = $1, error = NULL
		 WHERE run_id = $2`,
		domain.ProcessingDone,
		runID,
	)
	if err != nil {
		return fmt.Errorf("mark done run %d: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}
