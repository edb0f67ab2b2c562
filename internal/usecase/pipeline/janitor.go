package pipeline

import (
	"log/slog"
	"time"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
)

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func (uc *PipelineUseCase) janitor(interval time.Duration) {
	defer uc.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-uc.ctx.Done():
			return
		case <-ticker.C:
			uc.sweep(uc.now())
		}
	}
}

// sweep evicts sessions idle for longer than the TTL. Sessions with a run in
// flight are kept until it settles.
func (uc *PipelineUseCase) sweep(now time.Time) int {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	evicted := 0
	for id, s := range uc.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen) > uc.cfg.SessionTTL
		busy := s.state == domain.ViewAnalyzing
		s.mu.Unlock()

		if idle && !busy {
			delete(uc.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		uc.metrics.SessionsChanged(-evicted)
		uc.logger.Debug("sessions evicted", slog.Int("count", evicted))
	}
	return evicted
}
