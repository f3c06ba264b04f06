package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo/internal/logger"
	"todo/internal/metrics"
	"todo/internal/model"
	"todo/internal/repository"
)

// DefaultMaxUploadBytes is the per-file upload limit.
const DefaultMaxUploadBytes int64 = 5 << 20

// BlobStore persists attachment contents.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader, namespace, filename string) (string, error)
	URL(path string) string
	Delete(ctx context.Context, path string) error
}

// FileUpload is one file of an upload request. Size is the size the client
// declared; the real size is checked again while reading.
type FileUpload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

type AttachmentService struct {
	store    *repository.Store
	blobs    BlobStore
	maxBytes int64
}

func NewAttachmentService(store *repository.Store, blobs BlobStore, maxBytes int64) *AttachmentService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &AttachmentService{store: store, blobs: blobs, maxBytes: maxBytes}
}

type upload struct {
	name string
	mime string
	data []byte
}

// UploadAttachments stores every file of the batch or none of them. The batch
// is validated in full before anything is written.
func (s *AttachmentService) UploadAttachments(ctx context.Context, requester, taskID uuid.UUID, files []FileUpload) ([]model.Attachment, error) {
	if _, err := ownedTask(ctx, s.store, requester, taskID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, newValidationError("files", "The files field is required.")
	}

	for i, f := range files {
		if f.Size > s.maxBytes {
			return nil, s.tooLarge(i)
		}
	}

	uploads := make([]upload, len(files))
	for i, f := range files {
		data, err := s.read(f)
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > s.maxBytes {
			return nil, s.tooLarge(i)
		}
		uploads[i] = upload{
			name: path.Base(f.Name),
			mime: mimetype.Detect(data).String(),
			data: data,
		}
	}

	var (
		written     []string
		attachments = make([]model.Attachment, 0, len(uploads))
	)
	namespace := path.Join("attachments", taskID.String())

	err := s.store.WithinTx(ctx, func(tx *repository.Store) error {
		for _, u := range uploads {
			p, err := s.blobs.Put(ctx, bytes.NewReader(u.data), namespace, u.name)
			if err != nil {
				return fmt.Errorf("store blob: %w", err)
			}
			written = append(written, p)

			attachment := model.Attachment{
				TaskID:   taskID,
				Name:     u.name,
				Path:     p,
				MimeType: u.mime,
				Size:     int64(len(u.data)),
			}
			if err := tx.Attachments.Create(ctx, &attachment); err != nil {
				return err
			}
			attachment.URL = s.blobs.URL(p)
			attachments = append(attachments, attachment)
		}
		return nil
	})
	if err != nil {
		s.discard(written)
		return nil, err
	}

	for _, u := range uploads {
		metrics.AttachmentBytes.Add(float64(len(u.data)))
	}
	return attachments, nil
}

// DeleteAttachment removes the blob and then the record. The attachment must
// belong to taskID.
func (s *AttachmentService) DeleteAttachment(ctx context.Context, requester, taskID, attachmentID uuid.UUID) error {
	if _, err := ownedTask(ctx, s.store, requester, taskID); err != nil {
		return err
	}

	attachment, err := s.store.Attachments.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			return ErrNotFound
		}
		return err
	}
	if attachment.TaskID != taskID {
		return ErrForbidden
	}

	if err := s.blobs.Delete(ctx, attachment.Path); err != nil {
		return err
	}
	if err := s.store.Attachments.Delete(ctx, attachmentID); err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *AttachmentService) read(f FileUpload) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", f.Name, err)
	}
	return data, nil
}

func (s *AttachmentService) tooLarge(i int) error {
	field := fmt.Sprintf("files.%d", i)
	return newValidationError(field,
		fmt.Sprintf("The %s field must not be greater than %d kilobytes.", field, s.maxBytes>>10))
}

func (s *AttachmentService) discard(paths []string) {
	for _, p := range paths {
		if err := s.blobs.Delete(context.Background(), p); err != nil {
			logger.Warn("Attachment: failed to remove orphaned blob", zap.String("path", p), zap.Error(err))
		}
	}
}
