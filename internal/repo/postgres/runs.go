package postgres

import (
	"context"
	"fmt"

	"github.com/openml-labs/runeval/internal/domain"
)

type RunStore struct {
	db DB
}

func NewRunStore(db DB) *RunStore {
	if db == nil {
		return nil
	}
	return &RunStore{db: db}
}

func (s *RunStore) GetRun(ctx context.Context, runID int64) (domain.Run, error) {
	if s == nil || s.db == nil {
		return domain.Run{}, fmt.Errorf("run store not initialized")
	}
	var run domain.Run
	row := s.db.QueryRowContext(
		ctx,
		`SELECT rid, task_id, setup, uploader, upload_time
		 FROM run
		 WHERE rid = $1`,
		runID,
	)
	if err := row.Scan(&run.ID, &run.TaskID, &run.FlowID, &run.UploaderID, &run.UploadTime); err != nil {
		return domain.Run{}, handleNotFound(err)
	}
	return run, nil
}
