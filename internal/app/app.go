package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/database"
	"github.com/vancomm/minefield/internal/game"
	"github.com/vancomm/minefield/internal/middleware"
)

const (
	shutdownTimeout = 15 * time.Second
	evictInterval   = time.Minute
)

// App is the HTTP game server: the database, the in-memory sessions and the
// router around them.
type App struct {
	logger   *slog.Logger
	db       *pgxpool.Pool
	game     *config.Game
	jwt      *config.JWT
	cookies  *config.Cookies
	ws       *config.WebSocket
	sessions *game.Manager
}

func New(logger *slog.Logger) *App {
	return &App{logger: logger}
}

func (a *App) loadConfig() (err error) {
	if a.game, err = config.NewGame(); err != nil {
		return fmt.Errorf("failed to read game config: %w", err)
	}
	if a.jwt, err = config.NewJWT(); err != nil {
		return fmt.Errorf("failed to read jwt config: %w", err)
	}
	if a.cookies, err = config.NewCookies(a.jwt); err != nil {
		return fmt.Errorf("failed to read cookies config: %w", err)
	}
	if a.ws, err = config.NewWebSocket(); err != nil {
		return fmt.Errorf("failed to read ws config: %w", err)
	}
	return nil
}

// Start serves until ctx is done or the listener fails.
func (a *App) Start(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}

	db, migrator, err := database.ConnectAndMigrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect and migrate db: %w", err)
	}
	defer db.Close()
	a.db = db
	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.Debug(
			"database ready",
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)
	}

	server := &http.Server{
		Addr: config.Addr(),
		Handler: middleware.Wrap(
			a.router(),
			middleware.Auth(a.logger, a.cookies),
			middleware.Logging(a.logger),
			middleware.Cors(),
		),
		// WriteTimeout would also cut hijacked websocket connections.
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		a.logger.Info(
			"minefield server listening",
			slog.String("addr", server.Addr),
			slog.String("defaults", a.game.Defaults.Seed()),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		<-ctx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})
	grp.Go(func() error {
		return a.sessions.Run(ctx, evictInterval, func(n int) {
			a.logger.Info("evicted idle game sessions", slog.Int("count", n))
		})
	})

	return grp.Wait()
}
