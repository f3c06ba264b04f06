package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"todo/internal/model"
	"todo/internal/repository"
)

type CreateTaskInput struct {
	Title       string     `json:"title" validate:"required,min=3"`
	Description *string    `json:"description" validate:"omitnil,min=3"`
	Priority    string     `json:"priority" validate:"required,oneof=low medium high"`
	DueDatetime *time.Time `json:"due_datetime" validate:"omitnil,notpast"`
	Subtasks    []string   `json:"subtasks"`
}

// UpdateTaskInput is a partial update: nil fields are left untouched. An
// empty description clears it; ClearDueDatetime removes the due datetime.
type UpdateTaskInput struct {
	Title            *string    `json:"title" validate:"omitnil,min=3"`
	Description      *string    `json:"description" validate:"omitnil,min=3"`
	Priority         *string    `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDatetime      *time.Time `json:"due_datetime" validate:"omitnil,notpast"`
	ClearDueDatetime bool       `json:"clear_due_datetime"`
	Completed        *bool      `json:"completed"`
}

// UpdateResult carries the updated task and, when the update moved the user
// to a new level, that level.
type UpdateResult struct {
	Task    *model.Task
	LevelUp *model.Level
}

// URLResolver derives public URLs for stored blobs.
type URLResolver interface {
	URL(path string) string
}

type TaskService struct {
	store    *repository.Store
	levels   *LevelService
	urls     URLResolver
	validate *validator.Validate
	now      func() time.Time
}

func NewTaskService(store *repository.Store, levels *LevelService, urls URLResolver) *TaskService {
	s := &TaskService{
		store:  store,
		levels: levels,
		urls:   urls,
		now:    time.Now,
	}
	s.validate = newValidator(func() time.Time { return s.now() })
	return s
}

// CreateTask creates a task for owner along with the non-blank subtask titles.
func (s *TaskService) CreateTask(ctx context.Context, owner uuid.UUID, input CreateTaskInput) (*model.Task, error) {
	input.Title = *trimmed(&input.Title)
	input.Description = emptyToNil(trimmed(input.Description))
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	titles, err := cleanTitles("subtasks", input.Subtasks)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:      owner,
		Title:       input.Title,
		Description: input.Description,
		Priority:    model.Priority(input.Priority),
		DueDatetime: utc(input.DueDatetime),
	}
	for _, title := range titles {
		task.Subtasks = append(task.Subtasks, model.Subtask{Title: title})
	}

	if err := s.store.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns the requester's task with subtasks and attachments.
func (s *TaskService) GetTask(ctx context.Context, requester, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.store.Tasks.GetWithRelations(ctx, taskID)
	if err != nil {
		return nil, mapTaskErr(err)
	}
	if task.UserID != requester {
		return nil, ErrForbidden
	}
	s.resolveURLs(task.Attachments)
	return task, nil
}

// ListTasks returns the owner's live tasks, or the recycle bin when deleted
// is true, ordered by due datetime then priority.
func (s *TaskService) ListTasks(ctx context.Context, owner uuid.UUID, deleted bool) ([]model.Task, error) {
	tasks, err := s.store.Tasks.ListByUser(ctx, owner, deleted)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		s.resolveURLs(tasks[i].Attachments)
	}
	return tasks, nil
}

// UpdateTask applies a partial update. Setting completed propagates the value
// to every subtask and re-evaluates the requester's level in the same
// transaction.
func (s *TaskService) UpdateTask(ctx context.Context, requester, taskID uuid.UUID, input UpdateTaskInput) (*UpdateResult, error) {
	var (
		result  UpdateResult
		outcome LevelOutcome
	)

	err := s.store.WithinTx(ctx, func(tx *repository.Store) error {
		if _, err := ownedTask(ctx, tx, requester, taskID); err != nil {
			return err
		}

		fields, err := s.updateFields(input)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Tasks.Update(ctx, taskID, fields); err != nil {
				return mapTaskErr(err)
			}
		}

		if input.Completed != nil {
			if err := tx.Subtasks.SetCompletedForTask(ctx, taskID, *input.Completed); err != nil {
				return fmt.Errorf("propagate completion: %w", err)
			}
			if *input.Completed {
				outcome, err = s.levels.evaluate(ctx, tx, requester)
				if err != nil {
					return err
				}
			}
		}

		result.Task, err = tx.Tasks.GetWithRelations(ctx, taskID)
		return mapTaskErr(err)
	})
	if err != nil {
		return nil, err
	}

	s.levels.record(requester, outcome)
	if outcome.Changed {
		result.LevelUp = outcome.Level
	}
	s.resolveURLs(result.Task.Attachments)
	return &result, nil
}

func (s *TaskService) updateFields(input UpdateTaskInput) (map[string]any, error) {
	input.Title = trimmed(input.Title)
	input.Description = trimmed(input.Description)
	clearDescription := input.Description != nil && *input.Description == ""
	if clearDescription {
		input.Description = nil
	}
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	} else if clearDescription {
		fields["description"] = nil
	}
	if input.Priority != nil {
		fields["priority"] = *input.Priority
	}
	if input.DueDatetime != nil {
		fields["due_datetime"] = *utc(input.DueDatetime)
	} else if input.ClearDueDatetime {
		fields["due_datetime"] = nil
	}
	if input.Completed != nil {
		fields["completed"] = *input.Completed
	}
	return fields, nil
}

// SoftDeleteTask moves the task to the recycle bin. Deleting an already
// deleted task succeeds.
func (s *TaskService) SoftDeleteTask(ctx context.Context, requester, taskID uuid.UUID) error {
	if _, err := ownedTask(ctx, s.store, requester, taskID); err != nil {
		return err
	}
	return mapTaskErr(s.store.Tasks.SetDeleted(ctx, taskID, requester, true))
}

// RestoreTask brings a task back from the recycle bin. Tasks of other users
// are reported as not found.
func (s *TaskService) RestoreTask(ctx context.Context, requester, taskID uuid.UUID) (*model.Task, error) {
	if err := s.store.Tasks.SetDeleted(ctx, taskID, requester, false); err != nil {
		return nil, mapTaskErr(err)
	}
	task, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, mapTaskErr(err)
	}
	return task, nil
}

func (s *TaskService) resolveURLs(attachments []model.Attachment) {
	if s.urls == nil {
		return
	}
	for i := range attachments {
		attachments[i].URL = s.urls.URL(attachments[i].Path)
	}
}

// ownedTask loads a task and checks that requester owns it.
func ownedTask(ctx context.Context, store *repository.Store, requester, taskID uuid.UUID) (*model.Task, error) {
	task, err := store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, mapTaskErr(err)
	}
	if task.UserID != requester {
		return nil, ErrForbidden
	}
	return task, nil
}

func mapTaskErr(err error) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return ErrNotFound
	}
	return err
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
