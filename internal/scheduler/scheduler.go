package scheduler

import (
	"context"
	"time"

	"filevault-backend/internal/repository"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

var scheduler *gocron.Scheduler

// Initialize starts the background scheduler with the token retention
// sweep. Rows removed here are far past expiry and can no longer affect
// any refresh decision.
func Initialize(tokenRepo *repository.TokenRepository, graceHours int) {
	scheduler = gocron.NewScheduler(time.Local)

	grace := time.Duration(graceHours) * time.Hour
	_, err := scheduler.Every(24).Hours().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		purged, err := tokenRepo.DeleteExpiredBefore(ctx, time.Now().Add(-grace))
		if err != nil {
			log.Error().Err(err).Msg("Token retention sweep failed")
			return
		}
		if purged > 0 {
			log.Info().Int64("purged", purged).Msg("Token retention sweep completed")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to schedule token retention sweep")
	}

	scheduler.StartAsync()
}

// Stop gracefully shuts down the scheduler
func Stop() {
	if scheduler != nil {
		scheduler.Stop()
	}
}
