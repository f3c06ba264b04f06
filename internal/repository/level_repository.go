package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo/internal/model"
)

type LevelRepository struct {
	db *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// List returns the whole catalog ordered by threshold
func (r *LevelRepository) List(ctx context.Context) ([]model.Level, error) {
	var levels []model.Level
	if err := r.db.WithContext(ctx).Order("required_tasks ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

// HighestReachable returns the level with the greatest threshold not above
// completed, or nil when completed is below every threshold
func (r *LevelRepository) HighestReachable(ctx context.Context, completed int64) (*model.Level, error) {
	var level model.Level
	result := r.db.WithContext(ctx).
		Where("required_tasks <= ?", completed).
		Order("required_tasks DESC").
		First(&level)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &level, nil
}

// EnsureCatalog inserts the levels missing by name; existing rows are kept
func (r *LevelRepository) EnsureCatalog(ctx context.Context, levels []model.Level) error {
	if len(levels) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&levels).Error
	if err != nil {
		return fmt.Errorf("seed levels: %w", err)
	}
	return nil
}

// GetUserLevel returns the user's level record with its level loaded, or nil
func (r *LevelRepository) GetUserLevel(ctx context.Context, userID uuid.UUID) (*model.UserLevel, error) {
	var userLevel model.UserLevel
	result := r.db.WithContext(ctx).Preload("Level").Where("user_id = ?", userID).First(&userLevel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &userLevel, nil
}

// LockUserLevel reads the user's level record for update inside a transaction,
// with its level loaded. Returns nil when the user has no record yet.
func (r *LevelRepository) LockUserLevel(ctx context.Context, userID uuid.UUID) (*model.UserLevel, error) {
	var userLevel model.UserLevel
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&userLevel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	if err := r.db.WithContext(ctx).First(&userLevel.Level, "id = ?", userLevel.LevelID).Error; err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	return &userLevel, nil
}

// SetUserLevel points the user at levelID and resets the seen flag. Concurrent
// first inserts collapse onto the unique user_id.
func (r *LevelRepository) SetUserLevel(ctx context.Context, userID, levelID uuid.UUID) (*model.UserLevel, error) {
	userLevel := &model.UserLevel{
		UserID:        userID,
		LevelID:       levelID,
		AnimationSeen: false,
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"level_id", "animation_seen", "updated_at"}),
		}).
		Create(userLevel).Error
	if err != nil {
		return nil, fmt.Errorf("set user level: %w", err)
	}
	return userLevel, nil
}

// MarkSeen sets the seen flag when the user is still at levelID and has not
// seen it yet. Reports whether a row changed.
func (r *LevelRepository) MarkSeen(ctx context.Context, userID, levelID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.UserLevel{}).
		Where("user_id = ? AND level_id = ? AND animation_seen = ?", userID, levelID, false).
		Update("animation_seen", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
