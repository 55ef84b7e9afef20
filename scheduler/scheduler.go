package scheduler

import (
	"context"
	"time"

	"hwlicense/logger"
	"hwlicense/services"
)

// Start runs the hourly expiry sweep until ctx is cancelled. The first sweep
// runs immediately so stale rows are cleaned on boot.
func Start(ctx context.Context, service *services.LicenseService) {
	logger.Info("Scheduler started")

	sweep(ctx, service)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("Scheduler stopped")
				return
			case <-ticker.C:
				sweep(ctx, service)
			}
		}
	}()
}

func sweep(ctx context.Context, service *services.LicenseService) {
	updated, err := service.MarkExpired(ctx)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Failed to update expired licenses")
		return
	}

	if updated > 0 {
		logger.WithFields(map[string]interface{}{
			"count": updated,
		}).Info("Expired licenses updated")
	}
}
