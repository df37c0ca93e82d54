package worker

// retry_cron.go
// Background goroutine that periodically moves email jobs back from the DLQ
// once the SMTP circuit breaker has closed again.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/infra"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the redrive goroutine.
type RetryCronConfig struct {
	Cola  Cola
	CB    *infra.CircuitBreaker
	Queue string
}

// StartRetryCron launches a goroutine that ticks every 5 minutes and redrives
// up to retryBatchSize DLQ entries. It respects ctx for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Str("queue", cfg.Queue).Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				Redrive(ctx, cfg)
			}
		}
	}()
}

// Redrive moves DLQ entries back to their queue with a fresh attempt count.
// It does nothing while the breaker is open and returns how many were moved.
func Redrive(ctx context.Context, cfg RetryCronConfig) int {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return 0
	}

	movidos := 0
	for movidos < retryBatchSize {
		raw, ok, err := cfg.Cola.PopNoBloqueante(ctx, DLQPrefix+cfg.Queue)
		if err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to read DLQ")
			break
		}
		if !ok {
			break
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: unreadable DLQ entry dropped")
			continue
		}
		entry.Job.Intentos = 0
		data, err := json.Marshal(entry.Job)
		if err != nil {
			continue
		}
		if err := cfg.Cola.Push(ctx, entry.OriginalQueue, data); err != nil {
			log.Error().Err(err).Msg("retry_cron: failed to re-enqueue")
			_ = cfg.Cola.Push(ctx, DLQPrefix+cfg.Queue, []byte(raw))
			break
		}
		movidos++
	}

	if movidos > 0 {
		log.Info().Int("count", movidos).Str("queue", cfg.Queue).Msg("retry_cron: DLQ entries re-enqueued")
	}
	return movidos
}
