package service_test

import (
	"strings"

	"todo/internal/service"

	"github.com/google/uuid"
)

func (s *ServiceSuite) TestCreateSubtasks() {
	task := s.createTask(s.alice, "Move house")

	created, err := s.subtasks.CreateSubtasks(s.ctx, s.alice, task.ID, []string{"Boxes", " ", "Van"})
	s.Require().NoError(err)
	s.Require().Len(created, 2)
	s.Equal("Boxes", created[0].Title)
	s.Equal(task.ID, created[1].TaskID)

	_, err = s.subtasks.CreateSubtasks(s.ctx, s.alice, task.ID, nil)
	requireValidation(s.T(), err, "titles")

	_, err = s.subtasks.CreateSubtasks(s.ctx, s.alice, task.ID, []string{"", "  "})
	requireValidation(s.T(), err, "titles")

	_, err = s.subtasks.CreateSubtasks(s.ctx, s.alice, task.ID, []string{"ok", strings.Repeat("y", 256)})
	requireValidation(s.T(), err, "titles.1")

	listed, err := s.subtasks.ListSubtasks(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)
	s.Len(listed, 2)
}

func (s *ServiceSuite) TestCreateSubtasks_Ownership() {
	task := s.createTask(s.alice, "Move house")

	_, err := s.subtasks.CreateSubtasks(s.ctx, s.bob, task.ID, []string{"Sneaky"})
	s.ErrorIs(err, service.ErrForbidden)

	_, err = s.subtasks.CreateSubtasks(s.ctx, s.alice, uuid.New(), []string{"Orphan"})
	s.ErrorIs(err, service.ErrNotFound)
}

func (s *ServiceSuite) TestToggleAndRenameSubtask() {
	task := s.createTask(s.alice, "Move house", "Boxes")
	listed, err := s.subtasks.ListSubtasks(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)
	id := listed[0].ID

	toggled, err := s.subtasks.ToggleSubtask(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.True(toggled.Completed)

	toggled, err = s.subtasks.ToggleSubtask(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.False(toggled.Completed)

	renamed, err := s.subtasks.RenameSubtask(s.ctx, s.alice, id, "  Big boxes ")
	s.Require().NoError(err)
	s.Equal("Big boxes", renamed.Title)

	_, err = s.subtasks.RenameSubtask(s.ctx, s.alice, id, "   ")
	requireValidation(s.T(), err, "title")

	_, err = s.subtasks.ToggleSubtask(s.ctx, s.bob, id)
	s.ErrorIs(err, service.ErrForbidden)

	parent, err := s.tasks.GetTask(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)
	s.False(parent.Completed)
}

func (s *ServiceSuite) TestDeleteSubtask() {
	task := s.createTask(s.alice, "Move house", "Boxes", "Van")
	listed, err := s.subtasks.ListSubtasks(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)

	s.ErrorIs(s.subtasks.DeleteSubtask(s.ctx, s.bob, listed[0].ID), service.ErrForbidden)
	s.Require().NoError(s.subtasks.DeleteSubtask(s.ctx, s.alice, listed[0].ID))
	s.ErrorIs(s.subtasks.DeleteSubtask(s.ctx, s.alice, listed[0].ID), service.ErrNotFound)

	listed, err = s.subtasks.ListSubtasks(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal("Van", listed[0].Title)
}

func (s *ServiceSuite) TestSubtaskOwnershipCheckedBeforeInput() {
	task := s.createTask(s.alice, "Move house", "Boxes")
	listed, err := s.subtasks.ListSubtasks(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)

	_, err = s.subtasks.RenameSubtask(s.ctx, s.bob, listed[0].ID, "   ")
	s.ErrorIs(err, service.ErrForbidden)

	_, err = s.subtasks.CreateSubtasks(s.ctx, s.bob, task.ID, nil)
	s.ErrorIs(err, service.ErrForbidden)

	_, err = s.subtasks.RenameSubtask(s.ctx, s.alice, uuid.New(), "")
	s.ErrorIs(err, service.ErrNotFound)
}
