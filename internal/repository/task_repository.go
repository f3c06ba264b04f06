package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todo/internal/model"
)

// listOrder sorts by due datetime ascending with undated tasks last, then by
// priority rank high < medium < low < anything else.
const listOrder = `CASE WHEN due_datetime IS NULL THEN 1 ELSE 0 END, due_datetime ASC,
	CASE
		WHEN priority = 'high' THEN 1
		WHEN priority = 'medium' THEN 2
		WHEN priority = 'low' THEN 3
		ELSE 4
	END`

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database together with any subtasks set on it
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by its ID regardless of owner or deletion state
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetWithRelations retrieves a task with its subtasks and attachments loaded
func (r *TaskRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListByUser retrieves the user's tasks in the given deletion state, with
// attachments loaded
func (r *TaskRepository) ListByUser(ctx context.Context, userID uuid.UUID, deleted bool) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Where("user_id = ? AND is_deleted = ?", userID, deleted).
		Order(listOrder).
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update applies the given column values to a task
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// SetDeleted flips the soft-delete flag of a task owned by userID
func (r *TaskRepository) SetDeleted(ctx context.Context, id, userID uuid.UUID, deleted bool) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_deleted", deleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// CountByUser counts the user's non-deleted tasks with the given completion state
func (r *TaskRepository) CountByUser(ctx context.Context, userID uuid.UUID, completed bool) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND completed = ? AND is_deleted = ?", userID, completed, false).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
