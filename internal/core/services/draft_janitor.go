package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
)

// RunDraftJanitor periodically deletes drafts idle for longer than idleTTL
// until ctx is cancelled. Interval defaults to idleTTL/4 with a one-minute floor.
func RunDraftJanitor(ctx context.Context, purger portsrepo.DraftPurger, idleTTL, interval time.Duration, logger *slog.Logger) {
	if idleTTL <= 0 {
		return
	}
	if interval <= 0 {
		interval = max(idleTTL/4, time.Minute)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			purgeIdleDrafts(ctx, purger, now.Add(-idleTTL), logger)
		}
	}
}

func purgeIdleDrafts(ctx context.Context, purger portsrepo.DraftPurger, cutoff time.Time, logger *slog.Logger) {
	n, err := purger.PurgeIdleDrafts(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to purge idle drafts", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		logger.Info("Purged idle drafts", slog.Int64("count", n), slog.Time("cutoff", cutoff))
	}
}
