package service

import (
	"time"

	"github.com/Astemirdum/room-reservation/pkg/auth"
	"github.com/Astemirdum/room-reservation/reservation/internal/cache"
	"github.com/Astemirdum/room-reservation/reservation/internal/events"
	"github.com/Astemirdum/room-reservation/reservation/internal/repository"
	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	repo       repository.Repository
	cache      cache.RoomCache
	publisher  events.Publisher
	tokens     *auth.TokenManager
	bcryptCost int
	now        func() time.Time
}

type Option func(s *Service)

func WithCache(c cache.RoomCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, tokens *auth.TokenManager, bcryptCost int, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:        log.Named("service"),
		repo:       repo,
		cache:      cache.Nop{},
		publisher:  events.Nop{},
		tokens:     tokens,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
