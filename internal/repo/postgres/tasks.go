package postgres

import (
	"context"
	"fmt"

	"github.com/openml-labs/runeval/internal/domain"
)

type TaskStore struct {
	db DB
}

func NewTaskStore(db DB) *TaskStore {
	if db == nil {
		return nil
	}
	return &TaskStore{db: db}
}

func (s *TaskStore) GetTask(ctx context.Context, taskID int64) (domain.Task, error) {
	if s == nil || s.db == nil {
		return domain.Task{}, fmt.Errorf("task store not initialized")
	}
	var task domain.Task
	row := s.db.QueryRowContext(
		ctx,
		`SELECT task_id, ttid FROM task WHERE task_id = $1`,
		taskID,
	)
	if err := row.Scan(&task.ID, &task.TaskTypeID); err != nil {
		return domain.Task{}, handleNotFound(err)
	}
	return task, nil
}

func (s *TaskStore) GetTaskType(ctx context.Context, taskTypeID int64) (domain.TaskType, error) {
	if s == nil || s.db == nil {
		return domain.TaskType{}, fmt.Errorf("task store not initialized")
	}
	var tt domain.TaskType
	row := s.db.QueryRowContext(
		ctx,
		`SELECT ttid, name FROM task_type WHERE ttid = $1`,
		taskTypeID,
	)
	if err := row.Scan(&tt.ID, &tt.Name); err != nil {
		return domain.TaskType{}, handleNotFound(err)
	}
	// The task type id doubles as the category discriminator.
	tt.Category = domain.TaskCategory(tt.ID)
	return tt, nil
}

func (s *TaskStore) GetTaskInputs(ctx context.Context, taskID int64) (domain.TaskInputs, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("task store not initialized")
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT input, value FROM task_inputs WHERE task_id = $1`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("query task inputs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	raw := map[string]string{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan task input: %w", err)
		}
		raw[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.CoerceTaskInputs(raw), nil
}
