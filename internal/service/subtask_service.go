package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"todo/internal/model"
	"todo/internal/repository"
)

// SubtaskService manages checklist items. Every call checks that the
// requester owns the parent task. None of these operations touch the parent
// task's completion or the requester's level.
type SubtaskService struct {
	store *repository.Store
}

func NewSubtaskService(store *repository.Store) *SubtaskService {
	return &SubtaskService{store: store}
}

// CreateSubtasks creates one open subtask per non-blank title.
func (s *SubtaskService) CreateSubtasks(ctx context.Context, requester, taskID uuid.UUID, titles []string) ([]model.Subtask, error) {
	if _, err := ownedTask(ctx, s.store, requester, taskID); err != nil {
		return nil, err
	}

	kept, err := cleanTitles("titles", titles)
	if err != nil {
		return nil, err
	}
	if len(kept) == 0 {
		return nil, newValidationError("titles", "The titles field is required.")
	}

	subtasks := make([]model.Subtask, len(kept))
	for i, title := range kept {
		subtasks[i] = model.Subtask{TaskID: taskID, Title: title}
	}
	if err := s.store.Subtasks.CreateBatch(ctx, subtasks); err != nil {
		return nil, err
	}
	return subtasks, nil
}

func (s *SubtaskService) ListSubtasks(ctx context.Context, requester, taskID uuid.UUID) ([]model.Subtask, error) {
	if _, err := ownedTask(ctx, s.store, requester, taskID); err != nil {
		return nil, err
	}
	return s.store.Subtasks.ListByTask(ctx, taskID)
}

func (s *SubtaskService) RenameSubtask(ctx context.Context, requester, subtaskID uuid.UUID, title string) (*model.Subtask, error) {
	subtask, err := s.ownedSubtask(ctx, requester, subtaskID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, newValidationError("title", "The title field is required.")
	}
	if len([]rune(title)) > maxSubtaskTitle {
		return nil, newValidationError("title", fmt.Sprintf("The title field must not be greater than %d characters.", maxSubtaskTitle))
	}
	subtask.Title = title
	if err := s.store.Subtasks.Save(ctx, subtask); err != nil {
		return nil, mapSubtaskErr(err)
	}
	return subtask, nil
}

// ToggleSubtask flips the subtask's completion flag.
func (s *SubtaskService) ToggleSubtask(ctx context.Context, requester, subtaskID uuid.UUID) (*model.Subtask, error) {
	subtask, err := s.ownedSubtask(ctx, requester, subtaskID)
	if err != nil {
		return nil, err
	}
	subtask.Completed = !subtask.Completed
	if err := s.store.Subtasks.Save(ctx, subtask); err != nil {
		return nil, mapSubtaskErr(err)
	}
	return subtask, nil
}

func (s *SubtaskService) DeleteSubtask(ctx context.Context, requester, subtaskID uuid.UUID) error {
	if _, err := s.ownedSubtask(ctx, requester, subtaskID); err != nil {
		return err
	}
	return mapSubtaskErr(s.store.Subtasks.Delete(ctx, subtaskID))
}

func (s *SubtaskService) ownedSubtask(ctx context.Context, requester, subtaskID uuid.UUID) (*model.Subtask, error) {
	subtask, err := s.store.Subtasks.GetByID(ctx, subtaskID)
	if err != nil {
		return nil, mapSubtaskErr(err)
	}
	if _, err := ownedTask(ctx, s.store, requester, subtask.TaskID); err != nil {
		return nil, err
	}
	return subtask, nil
}

func mapSubtaskErr(err error) error {
	if errors.Is(err, repository.ErrSubtaskNotFound) {
		return ErrNotFound
	}
	return err
}
