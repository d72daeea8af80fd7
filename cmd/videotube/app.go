package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BNsrujan/Youtube-Clone/internal/db"
	"github.com/BNsrujan/Youtube-Clone/internal/handlers"
	"github.com/BNsrujan/Youtube-Clone/internal/logger"
	"github.com/BNsrujan/Youtube-Clone/internal/repository/postgres"
	"github.com/BNsrujan/Youtube-Clone/internal/repository/redis"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth"
	"github.com/BNsrujan/Youtube-Clone/internal/service/auth/tokenmanager"
	"github.com/BNsrujan/Youtube-Clone/internal/service/user"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
	Logger     logger.Logger

	// Release db pool and redis client
	closers []func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	app := &ServerApp{
		ListenAddr: c.ListenAddr,
		Logger:     logger,
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}
	app.closers = append(app.closers, pool.Close)

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authConfig := auth.Config{Logger: logger}

	if c.RedisAddr != "" {
		client, err := redis.Connect(ctx, c.RedisAddr)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = client.Close() })

		authConfig.Limiter = redis.NewAttemptLimiter(client, c.LoginMaxAttempts, c.LoginCooldown)
		authConfig.Denylist = redis.NewTokenDenylist(client)
	} else {
		logger.Warn("Redis address not set, login attempts are not limited and logout does not revoke access tokens")
	}

	authService, err := auth.NewService(authConfig, tokenManager, storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	userService := user.NewService(auth.DefaultHasher, storage)

	app.Handler = handlers.NewRouter(authService, userService, logger)

	return app, nil
}

// Close releases connections in reverse order of acquiring
func (s *ServerApp) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.Logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.Logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.Logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
