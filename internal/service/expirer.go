package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/crag/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultExpirerInterval = 10 * time.Minute
	defaultIdleTTL         = 24 * time.Hour
)

// ExpirerService drops conversation threads that have been idle longer than
// the configured TTL.
type ExpirerService struct {
	conversations domain.ConversationStore
	logger        *zap.Logger

	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewExpirerService(cs domain.ConversationStore, ttl time.Duration, logger *zap.Logger) *ExpirerService {
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	return &ExpirerService{
		conversations: cs,
		logger:        logger,
		ttl:           ttl,
		interval:      defaultExpirerInterval,
		now:           time.Now,
		stopCh:        make(chan struct{}),
	}
}

func (s *ExpirerService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the expirer on a periodic schedule in a background goroutine.
func (s *ExpirerService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("conversation expirer started",
			zap.Duration("interval", s.interval),
			zap.Duration("ttl", s.ttl))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.run(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("conversation expirer stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the expirer.
func (s *ExpirerService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *ExpirerService) run(ctx context.Context) {
	deleted, err := s.conversations.DeleteIdle(ctx, s.now().Add(-s.ttl))
	if err != nil {
		s.logger.Error("failed to delete idle conversations", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("deleted idle conversations", zap.Int64("count", deleted))
	}
}
