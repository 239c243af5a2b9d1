package handlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"filevault-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ObjectStore is the storage collaborator the upload handler needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PresignedGet(ctx context.Context, key string) (string, error)
}

// UploadStore persists upload metadata.
type UploadStore interface {
	SaveUpload(ctx context.Context, upload *models.Upload) error
	ListByUser(ctx context.Context, userID string) ([]models.Upload, error)
}

type UploadHandler struct {
	objects ObjectStore
	uploads UploadStore
}

func NewUploadHandler(objects ObjectStore, uploads UploadStore) *UploadHandler {
	return &UploadHandler{
		objects: objects,
		uploads: uploads,
	}
}

// Upload stores a file for the authenticated user
// @Summary Upload file
// @Security BearerAuth
// @Accept multipart/form-data
// @Success 200 {object} UploadResponse
// @Failure 401 {object} ErrorResponse
// @Router /upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}
	defer file.Close()

	// Key layout: {timestamp}-{userID}-{filename}. Namespaces objects
	// per user without needing a join against the uploads table.
	key := fmt.Sprintf("%d-%s-%s", time.Now().Unix(), user.ID, fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	if err := h.objects.Put(c.UserContext(), key, file, fileHeader.Size, contentType); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Storage unavailable",
		})
	}

	record := &models.Upload{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Filename:    fileHeader.Filename,
		StorageKey:  key,
		Size:        fileHeader.Size,
		ContentType: contentType,
		CreatedAt:   time.Now(),
	}
	if err := h.uploads.SaveUpload(c.UserContext(), record); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record upload",
		})
	}

	// The object is stored either way; a presign failure only costs the
	// client its download link.
	url, err := h.objects.PresignedGet(c.UserContext(), key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Could not presign download URL")
		url = ""
	}

	return c.JSON(UploadResponse{
		Filename: fileHeader.Filename,
		Key:      key,
		URL:      url,
		Status:   "uploaded",
	})
}

// ListUploads returns the authenticated user's upload records
// @Summary List own uploads
// @Security BearerAuth
// @Success 200 {array} models.Upload
// @Failure 401 {object} ErrorResponse
// @Router /uploads [get]
func (h *UploadHandler) ListUploads(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	uploads, err := h.uploads.ListByUser(c.UserContext(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list uploads",
		})
	}

	return c.JSON(uploads)
}
