package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/budgetloop/budgetloop-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

const (
	MaxAttachmentSize = 5 * 1024 * 1024 // 5MB
	ThumbnailWidth    = 320
	JPEGQuality       = 85
)

var (
	ErrInvalidImageData         = errors.New("invalid image data")
	ErrAttachmentsNotConfigured = errors.New("attachment storage not configured")
)

// AllowedAttachmentTypes maps the accepted MIME types to the stored file extension
var AllowedAttachmentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// AllowedExtensions maps extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// AttachmentService stores files linked to transactions
type AttachmentService struct {
	transactionRepo domain.TransactionRepository
	storage         storage.ObjectRepository
	eventPublisher  event.Publisher
	now             func() time.Time
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(transactionRepo domain.TransactionRepository, storage storage.ObjectRepository) *AttachmentService {
	return &AttachmentService{
		transactionRepo: transactionRepo,
		storage:         storage,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *AttachmentService) SetEventPublisher(publisher event.Publisher) {
	s.eventPublisher = publisher
}

func (s *AttachmentService) publishEvent(evt event.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(evt)
	}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *AttachmentService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// DetectContentType sniffs the content type of data. When sniffing is
// inconclusive the filename extension decides.
func DetectContentType(data []byte, filename string) string {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if ct == "application/octet-stream" {
		if byExt, ok := AllowedExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
			return byExt
		}
	}
	return ct
}

// Validate checks the size and type of an upload and returns its content type.
func (s *AttachmentService) Validate(data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", domain.NewFieldError("file", domain.ErrUnsupportedFile)
	}
	if len(data) > MaxAttachmentSize {
		return "", domain.NewFieldError("file", domain.ErrFileTooLarge)
	}
	ct := DetectContentType(data, filename)
	if _, ok := AllowedAttachmentTypes[ct]; !ok {
		return "", domain.NewFieldError("file", domain.ErrUnsupportedFile)
	}
	return ct, nil
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Upload stores a file and links it to the transaction. Images also get a
// JPEG thumbnail at most ThumbnailWidth pixels wide.
func (s *AttachmentService) Upload(ctx context.Context, transactionID, filename string, data []byte) (*domain.Attachment, error) {
	if !s.IsEnabled() {
		return nil, ErrAttachmentsNotConfigured
	}
	contentType, err := s.Validate(data, filename)
	if err != nil {
		return nil, err
	}

	var img image.Image
	if isImage(contentType) {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, domain.NewFieldError("file", ErrInvalidImageData)
		}
	}

	tx, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	attachmentID := uuid.New().String()
	originalPath := storage.ObjectPath(tx.ID, attachmentID, "original", AllowedAttachmentTypes[contentType])
	if _, err := s.storage.Upload(ctx, originalPath, bytes.NewReader(data), contentType, int64(len(data))); err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}
	uploaded := []string{originalPath}

	attachment := domain.Attachment{
		ID:           attachmentID,
		Filename:     path.Base(originalPath),
		OriginalName: filepath.Base(filename),
		MimeType:     contentType,
		Size:         int64(len(data)),
		UploadedAt:   s.now().UTC(),
	}

	if attachment.URL, err = s.storage.URL(ctx, originalPath); err != nil {
		s.cleanup(ctx, uploaded)
		return nil, err
	}

	if img != nil {
		thumbPath := storage.ObjectPath(tx.ID, attachmentID, "thumb", ".jpg")
		if err := s.uploadThumbnail(ctx, thumbPath, img); err != nil {
			s.cleanup(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, thumbPath)
		if attachment.ThumbnailURL, err = s.storage.URL(ctx, thumbPath); err != nil {
			s.cleanup(ctx, uploaded)
			return nil, err
		}
	}

	attachments := append(tx.Attachments, attachment)
	updated, err := s.transactionRepo.Update(ctx, tx.ID, &domain.TransactionPatch{Attachments: &attachments})
	if err != nil {
		s.cleanup(ctx, uploaded)
		return nil, err
	}

	s.publishEvent(event.TransactionUpdated(updated))
	return &attachment, nil
}

func (s *AttachmentService) uploadThumbnail(ctx context.Context, objectPath string, img image.Image) error {
	thumb := img
	if img.Bounds().Dx() > ThumbnailWidth {
		// Resize maintaining aspect ratio
		thumb = imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
		return fmt.Errorf("failed to upload thumbnail: %w", err)
	}
	return nil
}

// Delete unlinks an attachment from the transaction and removes its files.
func (s *AttachmentService) Delete(ctx context.Context, transactionID, attachmentID string) error {
	if !s.IsEnabled() {
		return ErrAttachmentsNotConfigured
	}

	tx, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}

	index := -1
	for i, a := range tx.Attachments {
		if a.ID == attachmentID {
			index = i
			break
		}
	}
	if index < 0 {
		return domain.ErrAttachmentNotFound
	}
	removed := tx.Attachments[index]

	remaining := append(tx.Attachments[:index:index], tx.Attachments[index+1:]...)
	updated, err := s.transactionRepo.Update(ctx, tx.ID, &domain.TransactionPatch{Attachments: &remaining})
	if err != nil {
		return err
	}

	s.cleanup(ctx, objectPaths(tx.ID, removed))
	s.publishEvent(event.TransactionUpdated(updated))
	return nil
}

// objectPaths returns every stored object of an attachment.
func objectPaths(transactionID string, a domain.Attachment) []string {
	paths := []string{storage.ObjectPath(transactionID, a.ID, "original", AllowedAttachmentTypes[a.MimeType])}
	if a.ThumbnailURL != "" {
		paths = append(paths, storage.ObjectPath(transactionID, a.ID, "thumb", ".jpg"))
	}
	return paths
}

// cleanup removes uploaded objects; failures are only logged.
func (s *AttachmentService) cleanup(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			log.Warn().Err(err).Str("object", p).Msg("Failed to delete attachment object")
		}
	}
}
