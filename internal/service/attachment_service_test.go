package service_test

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"todo/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
)

func textFile(name, body string) service.FileUpload {
	return service.FileUpload{
		Name: name,
		Size: int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func (s *ServiceSuite) blobCount() int {
	count := 0
	_ = afero.Walk(s.fs, ".", func(_ string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			count++
		}
		return nil
	})
	return count
}

func (s *ServiceSuite) TestUploadAttachments() {
	task := s.createTask(s.alice, "Taxes")

	uploaded, err := s.attachments.UploadAttachments(s.ctx, s.alice, task.ID, []service.FileUpload{
		textFile("receipt.TXT", "paid in full"),
		textFile("notes.txt", "call the accountant"),
	})

	s.Require().NoError(err)
	s.Require().Len(uploaded, 2)
	s.Equal("receipt.TXT", uploaded[0].Name)
	s.True(strings.HasPrefix(uploaded[0].MimeType, "text/plain"))
	s.Equal(int64(len("paid in full")), uploaded[0].Size)
	s.True(strings.HasPrefix(uploaded[0].Path, "attachments/"+task.ID.String()+"/"))
	s.True(strings.HasSuffix(uploaded[0].Path, ".txt"))
	s.Equal("/storage/"+uploaded[0].Path, uploaded[0].URL)
	s.Equal(2, s.blobCount())

	loaded, err := s.tasks.GetTask(s.ctx, s.alice, task.ID)
	s.Require().NoError(err)
	s.Len(loaded.Attachments, 2)
	s.NotEmpty(loaded.Attachments[0].URL)
}

func (s *ServiceSuite) TestUploadAttachments_OversizedFailsWholeBatch() {
	task := s.createTask(s.alice, "Taxes")

	_, err := s.attachments.UploadAttachments(s.ctx, s.alice, task.ID, []service.FileUpload{
		textFile("small.txt", "ok"),
		textFile("big.txt", strings.Repeat("z", 65)),
	})
	requireValidation(s.T(), err, "files.1")

	lying := textFile("liar.txt", strings.Repeat("z", 100))
	lying.Size = 10
	_, err = s.attachments.UploadAttachments(s.ctx, s.alice, task.ID, []service.FileUpload{lying})
	requireValidation(s.T(), err, "files.0")

	stored, err := s.store.Attachments.ListByTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Empty(stored)
	s.Equal(0, s.blobCount())
}

func (s *ServiceSuite) TestUploadAttachments_Ownership() {
	task := s.createTask(s.alice, "Taxes")

	_, err := s.attachments.UploadAttachments(s.ctx, s.bob, task.ID, []service.FileUpload{textFile("a.txt", "a")})
	s.ErrorIs(err, service.ErrForbidden)

	_, err = s.attachments.UploadAttachments(s.ctx, s.alice, task.ID, nil)
	requireValidation(s.T(), err, "files")
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, r io.Reader, namespace, filename string) (string, error) {
	args := m.Called(ctx, r, namespace, filename)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) URL(path string) string {
	return "/storage/" + path
}

func (m *MockBlobStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (s *ServiceSuite) TestUploadAttachments_RemovesWrittenBlobsOnFailure() {
	task := s.createTask(s.alice, "Taxes")
	blobs := new(MockBlobStore)
	blobs.On("Put", mock.Anything, mock.Anything, mock.Anything, "a.txt").Return("attachments/x/a.txt", nil)
	blobs.On("Put", mock.Anything, mock.Anything, mock.Anything, "b.txt").Return("", errors.New("disk full"))
	blobs.On("Delete", mock.Anything, "attachments/x/a.txt").Return(nil)
	svc := service.NewAttachmentService(s.store, blobs, 0)

	_, err := svc.UploadAttachments(s.ctx, s.alice, task.ID, []service.FileUpload{
		textFile("a.txt", "a"),
		textFile("b.txt", "b"),
	})

	s.Require().Error(err)
	blobs.AssertExpectations(s.T())
	stored, err := s.store.Attachments.ListByTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Empty(stored)
}

func (s *ServiceSuite) TestDeleteAttachment() {
	task := s.createTask(s.alice, "Taxes")
	other := s.createTask(s.alice, "Chores")
	uploaded, err := s.attachments.UploadAttachments(s.ctx, s.alice, task.ID, []service.FileUpload{textFile("a.txt", "a")})
	s.Require().NoError(err)
	id := uploaded[0].ID

	s.ErrorIs(s.attachments.DeleteAttachment(s.ctx, s.alice, other.ID, id), service.ErrForbidden)
	s.ErrorIs(s.attachments.DeleteAttachment(s.ctx, s.bob, task.ID, id), service.ErrForbidden)
	s.ErrorIs(s.attachments.DeleteAttachment(s.ctx, s.alice, task.ID, uuid.New()), service.ErrNotFound)

	s.Require().NoError(s.attachments.DeleteAttachment(s.ctx, s.alice, task.ID, id))
	s.Equal(0, s.blobCount())

	stored, err := s.store.Attachments.ListByTask(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Empty(stored)
}
