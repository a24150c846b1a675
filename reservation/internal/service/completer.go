package service

import (
	"context"
	"time"

	"github.com/Astemirdum/room-reservation/pkg/kafka"
	"github.com/Astemirdum/room-reservation/reservation/internal/model"
	"go.uber.org/zap"
)

// CompleteFinished marks every ORDERED reservation whose checkout day (date_end) is today or earlier as COMPLETED.
func (s *Service) CompleteFinished(ctx context.Context, today time.Time) (int, error) {
	completed, err := s.repo.CompleteFinished(ctx, model.Date(today))
	if err != nil {
		return 0, err
	}
	for _, rsv := range completed {
		s.afterChange(ctx, kafka.EventReservationCompleted, rsv)
	}
	return len(completed), nil
}

// RunCompleter calls CompleteFinished every interval until ctx is done.
func (s *Service) RunCompleter(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := s.CompleteFinished(ctx, s.now())
		if err != nil {
			s.log.Error("complete finished", zap.Error(err))
		} else if n > 0 {
			s.log.Info("reservations completed", zap.Int("count", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
