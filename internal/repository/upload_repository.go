package repository

import (
	"context"

	"filevault-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) SaveUpload(ctx context.Context, upload *models.Upload) error {
	result := r.db.WithContext(ctx).Create(upload)
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to save upload record")
		return result.Error
	}
	return nil
}

func (r *UploadRepository) ListByUser(ctx context.Context, userID string) ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&uploads).Error

	if err != nil {
		log.Error().Err(err).Msg("Failed to list uploads")
		return nil, err
	}
	return uploads, nil
}
