package handler

import (
	"io"
	"net/http"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AttachmentHandler handles transaction attachment uploads
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// UploadAttachment godoc
// @Summary Attach a file to a transaction
// @Description Accepts JPEG, PNG, WebP or PDF files up to 5MB. Images also get a thumbnail.
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Transaction ID"
// @Param file formData file true "File"
// @Success 201 {object} domain.Attachment
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /transactions/{id}/attachments [post]
func (h *AttachmentHandler) UploadAttachment(c echo.Context) error {
	// Without storage there is nothing to upload to.
	if !h.attachmentService.IsEnabled() {
		return NewServiceUnavailableError(c, "Attachment storage is not configured")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []api.FieldError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	// One byte past the limit is enough to reject oversized files.
	data, err := io.ReadAll(io.LimitReader(src, service.MaxAttachmentSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	transactionID := c.Param("id")
	attachment, err := h.attachmentService.Upload(c.Request().Context(), transactionID, file.Filename, data)
	if err != nil {
		return respondError(c, err)
	}

	log.Info().
		Str("transaction_id", transactionID).
		Str("attachment_id", attachment.ID).
		Str("mime_type", attachment.MimeType).
		Int64("size", attachment.Size).
		Msg("Attachment uploaded")

	return c.JSON(http.StatusCreated, attachment)
}

// DeleteAttachment godoc
// @Summary Remove an attachment
// @Tags attachments
// @Param id path string true "Transaction ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 204
// @Failure 404 {object} api.ErrorResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /transactions/{id}/attachments/{attachmentId} [delete]
func (h *AttachmentHandler) DeleteAttachment(c echo.Context) error {
	if !h.attachmentService.IsEnabled() {
		return NewServiceUnavailableError(c, "Attachment storage is not configured")
	}

	if err := h.attachmentService.Delete(c.Request().Context(), c.Param("id"), c.Param("attachmentId")); err != nil {
		return respondError(c, err)
	}

	log.Info().
		Str("transaction_id", c.Param("id")).
		Str("attachment_id", c.Param("attachmentId")).
		Msg("Attachment deleted")

	return c.NoContent(http.StatusNoContent)
}
