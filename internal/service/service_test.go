package service_test

import (
	"context"
	"fmt"
	"testing"

	"todo/internal/model"
	"todo/internal/repository"
	"todo/internal/service"
	"todo/internal/storage"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ServiceSuite runs every service against a fresh in-memory SQLite database.
type ServiceSuite struct {
	suite.Suite

	ctx   context.Context
	store *repository.Store
	fs    afero.Fs
	blobs *storage.BlobStore

	levels      *service.LevelService
	tasks       *service.TaskService
	subtasks    *service.SubtaskService
	attachments *service.AttachmentService

	alice uuid.UUID
	bob   uuid.UUID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := repository.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.T().Cleanup(func() { _ = sqlDB.Close() })

	s.store = repository.NewStore(db)
	s.fs = afero.NewMemMapFs()
	s.blobs = storage.NewBlobStoreFs(s.fs, "/storage")

	s.levels = service.NewLevelService(s.store)
	s.Require().NoError(s.levels.EnsureCatalog(s.ctx, service.DefaultLevels()))
	s.tasks = service.NewTaskService(s.store, s.levels, s.blobs)
	s.subtasks = service.NewSubtaskService(s.store)
	s.attachments = service.NewAttachmentService(s.store, s.blobs, 64)

	s.alice = s.createUser("alice@example.com")
	s.bob = s.createUser("bob@example.com")
}

func (s *ServiceSuite) createUser(email string) uuid.UUID {
	user := &model.User{Email: email, Name: email, HashedPassword: "x"}
	s.Require().NoError(s.store.Users.Create(s.ctx, user))
	return user.ID
}

func (s *ServiceSuite) createTask(owner uuid.UUID, title string, subtasks ...string) *model.Task {
	task, err := s.tasks.CreateTask(s.ctx, owner, service.CreateTaskInput{
		Title:    title,
		Priority: "medium",
		Subtasks: subtasks,
	})
	s.Require().NoError(err)
	return task
}

// seedCompleted inserts n completed tasks for owner without evaluating levels.
func (s *ServiceSuite) seedCompleted(owner uuid.UUID, n int) {
	for i := 0; i < n; i++ {
		task := &model.Task{
			UserID:    owner,
			Title:     fmt.Sprintf("done %d", i),
			Priority:  model.PriorityLow,
			Completed: true,
		}
		s.Require().NoError(s.store.Tasks.Create(s.ctx, task))
	}
}

func requireValidation(t *testing.T, err error, field string) {
	t.Helper()
	ve, ok := service.IsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	require.Contains(t, ve.Fields, field)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
