package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/room-reservation/pkg/auth"
	"github.com/Astemirdum/room-reservation/pkg/kafka"
	"github.com/Astemirdum/room-reservation/pkg/logger"
	"github.com/Astemirdum/room-reservation/pkg/postgres"
	"github.com/Astemirdum/room-reservation/reservation/config"
	"github.com/Astemirdum/room-reservation/reservation/internal/cache"
	"github.com/Astemirdum/room-reservation/reservation/internal/events"
	"github.com/Astemirdum/room-reservation/reservation/internal/handler"
	"github.com/Astemirdum/room-reservation/reservation/internal/repository"
	"github.com/Astemirdum/room-reservation/reservation/internal/server"
	"github.com/Astemirdum/room-reservation/reservation/internal/service"
	"github.com/Astemirdum/room-reservation/reservation/migrations"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "reservation")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	svc, closers, err := newService(ctx, cfg, tokens, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Error("close", zap.Error(err))
			}
		}
	}()

	go svc.RunCompleter(ctx, cfg.Completer.Interval)

	h := handler.New(svc, tokens, cfg.DateFormat, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	cancel()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
	return nil
}

// InitAdmin creates the configured superuser when the database has no users yet.
func InitAdmin(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "initadmin")
	if cfg.Admin.Password == "" {
		return &config.MissingKeysError{Keys: []string{"ADMIN_PASSWORD"}}
	}
	ctx := context.Background()
	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	svc, closers, err := newService(ctx, cfg, tokens, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	if _, err := svc.InitAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("init admin %v", err)
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func newService(ctx context.Context, cfg *config.Config, tokens *auth.TokenManager, log *zap.Logger) (*service.Service, []io.Closer, error) {
	var closers []io.Closer
	fail := func(err error) (*service.Service, []io.Closer, error) {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, nil, err
	}

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fail(fmt.Errorf("db init %v", err))
	}
	closers = append(closers, closerFunc(func() error {
		db.Close()
		return nil
	}))
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fail(fmt.Errorf("repo %v", err))
	}

	roomCache, err := cache.New(ctx, cfg.Cache, log)
	if err != nil {
		return fail(fmt.Errorf("cache init %v", err))
	}
	if c, ok := roomCache.(io.Closer); ok {
		closers = append(closers, c)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.Kafka.Enable {
		if err := kafka.CreateTopics(cfg.Kafka, kafka.ReservationTopic); err != nil {
			return fail(fmt.Errorf("kafka.CreateTopics %v", err))
		}
		producer, err := kafka.NewSyncProducer(cfg.Kafka)
		if err != nil {
			return fail(fmt.Errorf("kafka.NewSyncProducer %v", err))
		}
		p := events.NewPublisher(producer, kafka.ReservationTopic, cfg.DateFormat, log)
		closers = append(closers, p)
		publisher = p
	}

	svc := service.NewService(repo, tokens, cfg.Auth.BcryptCost, log,
		service.WithCache(roomCache),
		service.WithPublisher(publisher),
	)
	return svc, closers, nil
}
