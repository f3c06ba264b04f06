package service_test

import (
	"time"

	"todo/internal/model"
	"todo/internal/service"

	"github.com/google/uuid"
)

func (s *ServiceSuite) TestCreateTask_TitleLength() {
	_, err := s.tasks.CreateTask(s.ctx, s.alice, service.CreateTaskInput{Title: "Hi", Priority: "low"})
	requireValidation(s.T(), err, "title")

	task, err := s.tasks.CreateTask(s.ctx, s.alice, service.CreateTaskInput{Title: "Hi!", Priority: "low"})
	s.Require().NoError(err)
	s.Equal("Hi!", task.Title)
	s.Equal(s.alice, task.UserID)
	s.False(task.Completed)
	s.False(task.IsDeleted)
}

func (s *ServiceSuite) TestCreateTask_RejectsBadInput() {
	past := time.Now().Add(-time.Hour)

	_, err := s.tasks.CreateTask(s.ctx, s.alice, service.CreateTaskInput{Title: "Report", Priority: "urgent"})
	requireValidation(s.T(), err, "priority")

	_, err = s.tasks.CreateTask(s.ctx, s.alice, service.CreateTaskInput{Title: "Report", Priority: "low", DueDatetime: &past})
	requireValidation(s.T(), err, "due_datetime")

	_, err = s.tasks.CreateTask(s.ctx, s.alice, service.CreateTaskInput{Title: "Report", Priority: "low", Description: strPtr("ab")})
	requireValidation(s.T(), err, "description")

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'x'
	}
	_, err = s.tasks.CreateTask(s.ctx, s.alice, service.CreateTaskInput{
		Title:    "Report",
		Priority: "low",
		Subtasks: []string{"fine", string(long)},
	})
	requireValidation(s.T(), err, "subtasks.1")
}

func (s *ServiceSuite) TestCreateTask_FutureDueAndSubtasks() {
	due := time.Now().Add(24 * time.Hour)

	task, err := s.tasks.CreateTask(s.ctx, s.alice, service.CreateTaskInput{
		Title:       "  Plan trip  ",
		Description: strPtr("   "),
		Priority:    "high",
		DueDatetime: &due,
		Subtasks:    []string{"Book hotel", "  ", "", "Pack"},
	})

	s.Require().NoError(err)
	s.Equal("Plan trip", task.Title)
	s.Nil(task.Description)
	s.Require().NotNil(task.DueDatetime)
	s.Equal(time.UTC, task.DueDatetime.Location())

	loaded, err := s.tasks.GetTask(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)
	s.Require().Len(loaded.Subtasks, 2)
	for _, st := range loaded.Subtasks {
		s.False(st.Completed)
	}
}

func (s *ServiceSuite) TestGetTask_Ownership() {
	task := s.createTask(s.alice, "Private")

	_, err := s.tasks.GetTask(s.ctx, s.bob, task.ID)
	s.ErrorIs(err, service.ErrForbidden)

	_, err = s.tasks.GetTask(s.ctx, s.alice, uuid.New())
	s.ErrorIs(err, service.ErrNotFound)
}

func (s *ServiceSuite) TestUpdateTask_NonOwnerForbidden() {
	task := s.createTask(s.alice, "Private")

	_, err := s.tasks.UpdateTask(s.ctx, s.bob, task.ID, service.UpdateTaskInput{Title: strPtr("Hacked")})
	s.ErrorIs(err, service.ErrForbidden)

	loaded, err := s.tasks.GetTask(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)
	s.Equal("Private", loaded.Title)
}

func (s *ServiceSuite) TestUpdateTask_PartialFields() {
	due := time.Now().Add(time.Hour)
	task, err := s.tasks.CreateTask(s.ctx, s.alice, service.CreateTaskInput{
		Title:       "Write report",
		Description: strPtr("Quarterly numbers"),
		Priority:    "low",
		DueDatetime: &due,
	})
	s.Require().NoError(err)

	res, err := s.tasks.UpdateTask(s.ctx, s.alice, task.ID, service.UpdateTaskInput{
		Priority:         strPtr("high"),
		Description:      strPtr(""),
		ClearDueDatetime: true,
	})

	s.Require().NoError(err)
	s.Equal("Write report", res.Task.Title)
	s.Equal(model.PriorityHigh, res.Task.Priority)
	s.Nil(res.Task.Description)
	s.Nil(res.Task.DueDatetime)
	s.Nil(res.LevelUp)

	_, err = s.tasks.UpdateTask(s.ctx, s.alice, task.ID, service.UpdateTaskInput{Title: strPtr("No")})
	requireValidation(s.T(), err, "title")
}

func (s *ServiceSuite) TestUpdateTask_CompletionPropagatesToSubtasks() {
	task := s.createTask(s.alice, "Groceries", "Milk", "Eggs", "Bread")
	subtasks, err := s.subtasks.ListSubtasks(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)
	_, err = s.subtasks.ToggleSubtask(s.ctx, s.alice, subtasks[0].ID)
	s.Require().NoError(err)

	res, err := s.tasks.UpdateTask(s.ctx, s.alice, task.ID, service.UpdateTaskInput{Completed: boolPtr(true)})
	s.Require().NoError(err)
	s.True(res.Task.Completed)
	s.Require().Len(res.Task.Subtasks, 3)
	for _, st := range res.Task.Subtasks {
		s.True(st.Completed)
	}

	res, err = s.tasks.UpdateTask(s.ctx, s.alice, task.ID, service.UpdateTaskInput{Completed: boolPtr(false)})
	s.Require().NoError(err)
	s.False(res.Task.Completed)
	for _, st := range res.Task.Subtasks {
		s.False(st.Completed)
	}
}

func (s *ServiceSuite) TestUpdateTask_ReportsLevelUpAtThreshold() {
	var ids []uuid.UUID
	for i := 0; i < 10; i++ {
		ids = append(ids, s.createTask(s.alice, "Task number").ID)
	}

	var reached []string
	for _, id := range ids {
		res, err := s.tasks.UpdateTask(s.ctx, s.alice, id, service.UpdateTaskInput{Completed: boolPtr(true)})
		s.Require().NoError(err)
		if res.LevelUp != nil {
			reached = append(reached, res.LevelUp.Name)
		}
	}

	s.Equal([]string{"Level 1: Baby Steps", "Level 2: Rookie Rocket"}, reached)
}

func (s *ServiceSuite) TestUpdateTask_UncompletingIsNotALevelUp() {
	s.seedCompleted(s.alice, 9)
	task := s.createTask(s.alice, "Tenth chore")

	res, err := s.tasks.UpdateTask(s.ctx, s.alice, task.ID, service.UpdateTaskInput{Completed: boolPtr(true)})
	s.Require().NoError(err)
	s.Require().NotNil(res.LevelUp)
	s.Equal("Level 2: Rookie Rocket", res.LevelUp.Name)
	_, err = s.levels.AcknowledgeSeen(s.ctx, s.alice, res.LevelUp.ID)
	s.Require().NoError(err)

	res, err = s.tasks.UpdateTask(s.ctx, s.alice, task.ID, service.UpdateTaskInput{Completed: boolPtr(false)})
	s.Require().NoError(err)
	s.Nil(res.LevelUp)

	userLevel, err := s.store.Levels.GetUserLevel(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal("Level 2: Rookie Rocket", userLevel.Level.Name)
	s.True(userLevel.AnimationSeen)

	dashboard, err := s.levels.Dashboard(s.ctx, s.alice)
	s.Require().NoError(err)
	s.False(dashboard.ShowCelebration)
}

func (s *ServiceSuite) TestCreateTask_SubtasksKeepInsertionOrder() {
	want := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < 20; i++ {
		task := s.createTask(s.alice, "Ordered list", want...)

		loaded, err := s.tasks.GetTask(s.ctx, s.alice, task.ID)
		s.Require().NoError(err)
		got := make([]string, 0, len(loaded.Subtasks))
		for _, st := range loaded.Subtasks {
			got = append(got, st.Title)
		}
		s.Require().Equal(want, got)

		listed, err := s.subtasks.ListSubtasks(s.ctx, s.alice, task.ID)
		s.Require().NoError(err)
		s.Require().Len(listed, len(want))
		for j, st := range listed {
			s.Equal(want[j], st.Title)
		}
	}
}

func (s *ServiceSuite) TestSoftDeleteAndRestore() {
	task := s.createTask(s.alice, "Old chore")

	s.ErrorIs(s.tasks.SoftDeleteTask(s.ctx, s.bob, task.ID), service.ErrForbidden)
	s.Require().NoError(s.tasks.SoftDeleteTask(s.ctx, s.alice, task.ID))
	s.Require().NoError(s.tasks.SoftDeleteTask(s.ctx, s.alice, task.ID))

	live, err := s.tasks.ListTasks(s.ctx, s.alice, false)
	s.Require().NoError(err)
	s.Empty(live)

	binned, err := s.tasks.ListTasks(s.ctx, s.alice, true)
	s.Require().NoError(err)
	s.Require().Len(binned, 1)
	s.True(binned[0].IsDeleted)

	_, err = s.tasks.RestoreTask(s.ctx, s.bob, task.ID)
	s.ErrorIs(err, service.ErrNotFound)

	restored, err := s.tasks.RestoreTask(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)
	s.False(restored.IsDeleted)

	live, err = s.tasks.ListTasks(s.ctx, s.alice, false)
	s.Require().NoError(err)
	s.Len(live, 1)
}

func (s *ServiceSuite) TestListTasks_OnlyOwner() {
	s.createTask(s.alice, "Alice task")
	s.createTask(s.bob, "Bob task")

	tasks, err := s.tasks.ListTasks(s.ctx, s.alice, false)

	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("Alice task", tasks[0].Title)
}
