package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todo/internal/model"
)

type SubtaskRepository struct {
	db *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) *SubtaskRepository {
	return &SubtaskRepository{db: db}
}

// CreateBatch inserts all subtasks in a single statement
func (r *SubtaskRepository) CreateBatch(ctx context.Context, subtasks []model.Subtask) error {
	if len(subtasks) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&subtasks).Error; err != nil {
		return fmt.Errorf("create subtasks: %w", err)
	}
	return nil
}

func (r *SubtaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subtask, error) {
	var subtask model.Subtask
	result := r.db.WithContext(ctx).First(&subtask, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, result.Error
	}
	return &subtask, nil
}

func (r *SubtaskRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	result := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at, id").Find(&subtasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return subtasks, nil
}

// Save persists the title and completion state of an existing subtask
func (r *SubtaskRepository) Save(ctx context.Context, subtask *model.Subtask) error {
	result := r.db.WithContext(ctx).Model(subtask).
		Select("title", "completed").
		Updates(map[string]any{"title": subtask.Title, "completed": subtask.Completed})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubtaskNotFound
	}
	return nil
}

// SetCompletedForTask forces every subtask of a task to the given state
func (r *SubtaskRepository) SetCompletedForTask(ctx context.Context, taskID uuid.UUID, completed bool) error {
	return r.db.WithContext(ctx).Model(&model.Subtask{}).
		Where("task_id = ?", taskID).
		Update("completed", completed).Error
}

func (r *SubtaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Subtask{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubtaskNotFound
	}
	return nil
}
