package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo/internal/logger"
	"todo/internal/metrics"
	"todo/internal/model"
	"todo/internal/repository"
)

// LevelOutcome is the result of one evaluation: Changed is true only when the
// user moved to Level during that call.
type LevelOutcome struct {
	Changed bool
	Level   *model.Level
}

type Dashboard struct {
	CompletedCount  int64         `json:"completed_count"`
	PendingCount    int64         `json:"pending_count"`
	CurrentLevel    *model.Level  `json:"current_level"`
	Levels          []model.Level `json:"levels"`
	ShowCelebration bool          `json:"show_celebration"`
}

type LevelService struct {
	store *repository.Store
}

func NewLevelService(store *repository.Store) *LevelService {
	return &LevelService{store: store}
}

// DefaultLevels is the catalog installed on startup.
func DefaultLevels() []model.Level {
	return []model.Level{
		{Name: "Level 1: Baby Steps", RequiredTasks: 5, Description: "Five tasks done. Your to-do list has started to respect you."},
		{Name: "Level 2: Rookie Rocket", RequiredTasks: 10, Description: "Ten tasks down and leaving procrastination orbit."},
		{Name: "Level 3: Taskinator", RequiredTasks: 15, Description: "Fifteen tasks. A task-crunching machine with a calendar for a brain."},
		{Name: "Level 4: Workflow Wizard", RequiredTasks: 20, Description: "Twenty tasks enchanted into submission."},
		{Name: "Level 5: Productivity Panda", RequiredTasks: 25, Description: "Twenty-five tasks completed with calm and bamboo snacks."},
		{Name: "Level 6: Deadline Dodger", RequiredTasks: 30, Description: "Thirty tasks. Deadlines run the other way when they see you."},
		{Name: "Level 7: Checklist Champ", RequiredTasks: 35, Description: "Thirty-five tasks worn as a belt of honor."},
		{Name: "Level 8: To-Do Tyrant", RequiredTasks: 40, Description: "Forty tasks. You rule your calendar with an iron stylus."},
		{Name: "Level 9: Overlord of Order", RequiredTasks: 45, Description: "Forty-five tasks tamed. Chaos fears you."},
		{Name: "Level 10: Legendary Task Slayer", RequiredTasks: 50, Description: "Fifty tasks. There are no more levels, only glory."},
	}
}

// EnsureCatalog installs any missing levels from the given catalog.
func (s *LevelService) EnsureCatalog(ctx context.Context, levels []model.Level) error {
	return s.store.Levels.EnsureCatalog(ctx, levels)
}

func (s *LevelService) Catalog(ctx context.Context) ([]model.Level, error) {
	return s.store.Levels.List(ctx)
}

// Evaluate recomputes the user's level in its own transaction.
func (s *LevelService) Evaluate(ctx context.Context, userID uuid.UUID) (LevelOutcome, error) {
	var outcome LevelOutcome
	err := s.store.WithinTx(ctx, func(tx *repository.Store) error {
		var err error
		outcome, err = s.evaluate(ctx, tx, userID)
		return err
	})
	if err != nil {
		return LevelOutcome{}, err
	}
	s.record(userID, outcome)
	return outcome, nil
}

// evaluate must run inside a transaction. Locking the user row first
// serializes concurrent evaluations, so every count sees the completions
// committed before it. Levels only move up: a count that fell below the
// current threshold leaves the record as it is.
func (s *LevelService) evaluate(ctx context.Context, tx *repository.Store, userID uuid.UUID) (LevelOutcome, error) {
	if err := tx.Users.LockByID(ctx, userID); err != nil {
		return LevelOutcome{}, fmt.Errorf("lock user: %w", err)
	}

	completed, err := tx.Tasks.CountByUser(ctx, userID, true)
	if err != nil {
		return LevelOutcome{}, fmt.Errorf("count completed tasks: %w", err)
	}

	level, err := tx.Levels.HighestReachable(ctx, completed)
	if err != nil {
		return LevelOutcome{}, fmt.Errorf("select level: %w", err)
	}
	if level == nil {
		return LevelOutcome{}, nil
	}

	current, err := tx.Levels.LockUserLevel(ctx, userID)
	if err != nil {
		return LevelOutcome{}, fmt.Errorf("load user level: %w", err)
	}
	if current != nil && current.Level.RequiredTasks >= level.RequiredTasks {
		return LevelOutcome{Level: &current.Level}, nil
	}

	if _, err := tx.Levels.SetUserLevel(ctx, userID, level.ID); err != nil {
		return LevelOutcome{}, err
	}
	return LevelOutcome{Changed: true, Level: level}, nil
}

// record runs after commit so rolled back transitions are not counted.
func (s *LevelService) record(userID uuid.UUID, outcome LevelOutcome) {
	if !outcome.Changed {
		return
	}
	metrics.LevelUps.Inc()
	logger.Info("Level transition",
		zap.String("user_id", userID.String()),
		zap.String("level", outcome.Level.Name),
		zap.Int("required_tasks", outcome.Level.RequiredTasks),
	)
}

// AcknowledgeSeen marks the celebration of levelID as shown. It is a no-op
// when the user is no longer at levelID or has already seen it.
func (s *LevelService) AcknowledgeSeen(ctx context.Context, userID, levelID uuid.UUID) (bool, error) {
	return s.store.Levels.MarkSeen(ctx, userID, levelID)
}

// Dashboard summarizes progress. An unseen celebration is reported once and
// acknowledged in the same call.
func (s *LevelService) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	completed, err := s.store.Tasks.CountByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	pending, err := s.store.Tasks.CountByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	levels, err := s.store.Levels.List(ctx)
	if err != nil {
		return nil, err
	}
	userLevel, err := s.store.Levels.GetUserLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		CompletedCount: completed,
		PendingCount:   pending,
		Levels:         levels,
	}
	if userLevel == nil {
		return dashboard, nil
	}

	dashboard.CurrentLevel = &userLevel.Level
	if !userLevel.AnimationSeen {
		shown, err := s.store.Levels.MarkSeen(ctx, userID, userLevel.LevelID)
		if err != nil {
			return nil, err
		}
		dashboard.ShowCelebration = shown
	}
	return dashboard, nil
}
