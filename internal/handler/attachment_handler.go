package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"todo/internal/model"
	"todo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AttachmentService interface {
	UploadAttachments(ctx context.Context, requester, taskID uuid.UUID, files []service.FileUpload) ([]model.Attachment, error)
	DeleteAttachment(ctx context.Context, requester, taskID, attachmentID uuid.UUID) error
}

type AttachmentHandler struct {
	attachments AttachmentService
}

func NewAttachmentHandler(attachments AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

type AttachmentsResponse struct {
	Message     string             `json:"message"`
	Attachments []model.Attachment `json:"attachments"`
}

// Upload godoc
// @Summary      Upload attachments to a task
// @Description  All files are stored or none are.
// @Tags         Attachments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Param        files formData file true "Files"
// @Success      201 {object} AttachmentsResponse
// @Failure      422 {object} ValidationErrorResponse
// @Router       /tasks/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid multipart form"})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["files[]"]
	}

	files := make([]service.FileUpload, len(headers))
	for i, fh := range headers {
		files[i] = fileUpload(fh)
	}

	attachments, err := h.attachments.UploadAttachments(c.Request.Context(), userID, taskID, files)
	if err != nil {
		respondError(c, err, "Failed to upload files.")
		return
	}
	c.JSON(http.StatusCreated, AttachmentsResponse{Message: "Files uploaded successfully.", Attachments: attachments})
}

// Delete godoc
// @Summary      Remove an attachment
// @Tags         Attachments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Param        attachment_id path string true "Attachment ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Router       /tasks/{id}/attachments/{attachment_id} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "id", "task")
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "attachment_id", "attachment")
	if !ok {
		return
	}

	if err := h.attachments.DeleteAttachment(c.Request.Context(), userID, taskID, attachmentID); err != nil {
		respondError(c, err, "Failed to remove attachment.")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Attachment removed."})
}

func fileUpload(fh *multipart.FileHeader) service.FileUpload {
	return service.FileUpload{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
