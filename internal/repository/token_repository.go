package repository

import (
	"context"
	"time"

	"filevault-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TokenRepository persists refresh-token records. Rows are keyed by the
// SHA-256 digest of the raw token; the revoked flag only ever moves from
// false to true.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Insert(ctx context.Context, token *models.RefreshToken) error {
	result := r.db.WithContext(ctx).Create(token)
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to insert refresh token")
		return result.Error
	}
	return nil
}

func (r *TokenRepository) FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	result := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to look up refresh token")
		return nil, result.Error
	}

	return &token, nil
}

// Revoke marks a single record as revoked. Revoking an already-revoked
// record is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true)

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to revoke refresh token")
		return result.Error
	}
	return nil
}

// RevokeAllForUser invalidates every outstanding refresh token for a user.
// Used for logout-everywhere and as the reuse-detection defense.
func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true)

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to revoke user refresh tokens")
		return result.Error
	}
	return nil
}

// Rotate atomically consumes the old record and installs its successor.
// The conditional update on the revoked flag closes the race between two
// concurrent refresh attempts with the same token: exactly one caller
// observes rotated == true, the other sees the record already consumed.
func (r *TokenRepository) Rotate(ctx context.Context, oldID string, next *models.RefreshToken) (bool, error) {
	rotated := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked = ?", oldID, false).
			Update("revoked", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Create(next).Error; err != nil {
			return err
		}

		rotated = true
		return nil
	})

	if err != nil {
		log.Error().Err(err).Msg("Failed to rotate refresh token")
		return false, err
	}

	return rotated, nil
}

// DeleteExpiredBefore removes records whose expiry is older than the
// cutoff. Retention only: rows still inside the grace window are kept so
// reuse detection stays meaningful for recently rotated tokens.
func (r *TokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.RefreshToken{})

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to purge expired refresh tokens")
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
