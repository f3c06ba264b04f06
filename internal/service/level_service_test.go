package service_test

import (
	"todo/internal/service"

	"github.com/google/uuid"
)

func (s *ServiceSuite) TestEvaluate_BelowFirstThreshold() {
	s.seedCompleted(s.alice, 4)

	outcome, err := s.levels.Evaluate(s.ctx, s.alice)

	s.Require().NoError(err)
	s.False(outcome.Changed)
	s.Nil(outcome.Level)

	dashboard, err := s.levels.Dashboard(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Nil(dashboard.CurrentLevel)
	s.False(dashboard.ShowCelebration)
}

func (s *ServiceSuite) TestEvaluate_IsIdempotent() {
	s.seedCompleted(s.alice, 10)

	first, err := s.levels.Evaluate(s.ctx, s.alice)
	s.Require().NoError(err)
	s.True(first.Changed)
	s.Equal(10, first.Level.RequiredTasks)

	changed, err := s.levels.AcknowledgeSeen(s.ctx, s.alice, first.Level.ID)
	s.Require().NoError(err)
	s.True(changed)

	second, err := s.levels.Evaluate(s.ctx, s.alice)
	s.Require().NoError(err)
	s.False(second.Changed)
	s.Equal(first.Level.ID, second.Level.ID)

	userLevel, err := s.store.Levels.GetUserLevel(s.ctx, s.alice)
	s.Require().NoError(err)
	s.True(userLevel.AnimationSeen)
}

func (s *ServiceSuite) TestEvaluate_KeepsLevelWhenCountDrops() {
	s.seedCompleted(s.alice, 10)
	first, err := s.levels.Evaluate(s.ctx, s.alice)
	s.Require().NoError(err)
	_, err = s.levels.AcknowledgeSeen(s.ctx, s.alice, first.Level.ID)
	s.Require().NoError(err)

	tasks, err := s.tasks.ListTasks(s.ctx, s.alice, false)
	s.Require().NoError(err)
	s.Require().NoError(s.tasks.SoftDeleteTask(s.ctx, s.alice, tasks[0].ID))

	outcome, err := s.levels.Evaluate(s.ctx, s.alice)
	s.Require().NoError(err)
	s.False(outcome.Changed)
	s.Equal(10, outcome.Level.RequiredTasks)

	userLevel, err := s.store.Levels.GetUserLevel(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(first.Level.ID, userLevel.LevelID)
	s.True(userLevel.AnimationSeen)
}

func (s *ServiceSuite) TestEvaluate_KeepsLevelBelowFirstThreshold() {
	s.seedCompleted(s.alice, 5)
	first, err := s.levels.Evaluate(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Require().True(first.Changed)

	tasks, err := s.tasks.ListTasks(s.ctx, s.alice, false)
	s.Require().NoError(err)
	s.Require().NoError(s.tasks.SoftDeleteTask(s.ctx, s.alice, tasks[0].ID))

	outcome, err := s.levels.Evaluate(s.ctx, s.alice)
	s.Require().NoError(err)
	s.False(outcome.Changed)

	userLevel, err := s.store.Levels.GetUserLevel(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(first.Level.ID, userLevel.LevelID)
}

func (s *ServiceSuite) TestAcknowledgeSeen_WrongLevelIsNoop() {
	s.seedCompleted(s.alice, 5)
	_, err := s.levels.Evaluate(s.ctx, s.alice)
	s.Require().NoError(err)

	changed, err := s.levels.AcknowledgeSeen(s.ctx, s.alice, uuid.New())
	s.Require().NoError(err)
	s.False(changed)

	userLevel, err := s.store.Levels.GetUserLevel(s.ctx, s.alice)
	s.Require().NoError(err)
	s.False(userLevel.AnimationSeen)
}

func (s *ServiceSuite) TestDashboard_CelebrationShownOnce() {
	s.seedCompleted(s.alice, 5)
	s.createTask(s.alice, "Still open")
	_, err := s.levels.Evaluate(s.ctx, s.alice)
	s.Require().NoError(err)

	first, err := s.levels.Dashboard(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(int64(5), first.CompletedCount)
	s.Equal(int64(1), first.PendingCount)
	s.Len(first.Levels, 10)
	s.Require().NotNil(first.CurrentLevel)
	s.Equal("Level 1: Baby Steps", first.CurrentLevel.Name)
	s.True(first.ShowCelebration)

	second, err := s.levels.Dashboard(s.ctx, s.alice)
	s.Require().NoError(err)
	s.False(second.ShowCelebration)
}

func (s *ServiceSuite) TestEnsureCatalog_Idempotent() {
	s.Require().NoError(s.levels.EnsureCatalog(s.ctx, service.DefaultLevels()))

	levels, err := s.levels.Catalog(s.ctx)
	s.Require().NoError(err)
	s.Len(levels, 10)
	for i := 1; i < len(levels); i++ {
		s.Less(levels[i-1].RequiredTasks, levels[i].RequiredTasks)
	}
}
