package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"moodshare/internal/config"
	"moodshare/internal/database"
	"moodshare/internal/handler"
	"moodshare/internal/mailer"
	"moodshare/internal/queue"
	"moodshare/internal/redis"
	"moodshare/internal/repository"
	"moodshare/internal/service"
	"moodshare/internal/session"
	"moodshare/internal/web"
	"moodshare/internal/worker"
)

// Run wires the whole application and serves until interrupted.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rdb, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rdb.Ping(ctx); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	sessions := session.NewRedisStore(rdb, time.Duration(cfg.SessionLifetime)*time.Second)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)

	tokens := service.NewTokenService(cfg)
	users := service.NewUserService(userRepo)
	posts := service.NewPostService(postRepo)
	follows := service.NewFollowService(followRepo, userRepo)
	feed := service.NewFeedService(postRepo)

	// Reset emails are enqueued on a Redis stream and delivered by the
	// mail workers, so requests never wait on SMTP.
	mailWorkers := worker.NewManager(
		queue.NewConsumer(rdb),
		worker.NewHandler(mailer.New(cfg)),
		worker.ManagerConfig{},
	)
	if err := mailWorkers.Start(ctx); err != nil {
		return fmt.Errorf("failed to start mail workers: %w", err)
	}
	defer mailWorkers.Stop()

	mail := mailer.NewQueued(queue.NewPublisher(rdb))

	router := NewRouter(RouterConfig{
		AuthHandler: handler.NewAuthHandler(users, tokens),
		UserHandler: handler.NewUserHandler(users, posts, cfg),
		PostHandler: handler.NewPostHandler(posts, cfg),
		FeedHandler: handler.NewFeedHandler(feed, cfg),
		WebHandlers: web.NewHandlers(users, posts, follows, feed, tokens, sessions, mail, cfg),

		TokenService: tokens,
		UserService:  users,
		Sessions:     sessions,
	})

	srv := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
