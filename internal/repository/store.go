package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one connection or transaction.
type Store struct {
	db          *gorm.DB
	Users       *UserRepository
	Tasks       *TaskRepository
	Subtasks    *SubtaskRepository
	Attachments *AttachmentRepository
	Levels      *LevelRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Tasks:       NewTaskRepository(db),
		Subtasks:    NewSubtaskRepository(db),
		Attachments: NewAttachmentRepository(db),
		Levels:      NewLevelRepository(db),
	}
}

// WithinTx runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
