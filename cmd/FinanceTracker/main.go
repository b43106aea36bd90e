package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	database "github.com/sebuszqo/FinanceTracker/db"
	"github.com/sebuszqo/FinanceTracker/internal/auth"
	"github.com/sebuszqo/FinanceTracker/internal/config"
	"github.com/sebuszqo/FinanceTracker/internal/credentials"
	"github.com/sebuszqo/FinanceTracker/internal/finance/application"
	"github.com/sebuszqo/FinanceTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceTracker/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceTracker/internal/httputil"
	"github.com/sebuszqo/FinanceTracker/internal/logger"
	"github.com/sebuszqo/FinanceTracker/internal/metrics"
	"github.com/sebuszqo/FinanceTracker/internal/server"
	"github.com/sebuszqo/FinanceTracker/internal/user"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Missing configuration, update to start server")
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, database.Options{
		ConnectionString: cfg.DBConnectionString,
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer dbService.Close()

	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DBConnectionString); err != nil {
			return err
		}
	}

	userRepo := user.NewUserRepository(dbService.DB, cfg.StoreTimeout)
	userService := user.NewUserService(userRepo, credentials.NewBcryptHasher(cfg.BcryptCost), cfg.MaxPageSize)
	userHandler := user.NewHandler(userService)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewAuthService(userService, jwtManager)
	authHandler := auth.NewHandler(authService)
	gate := auth.NewGate(jwtManager, userService)

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB, cfg.StoreTimeout)
	categoryService := application.NewCategoryService(categoryRepo, cfg.MaxPageSize)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, httputil.RespondJSON, httputil.RespondErr)

	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB, cfg.StoreTimeout)
	transactionService := application.NewTransactionService(transactionRepo, cfg.MaxPageSize)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, httputil.RespondJSON, httputil.RespondErr)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		if m, err = metrics.New(); err != nil {
			return err
		}
	}

	srv := server.NewServer(gate, authHandler, userHandler, categoryHandler, transactionHandler, dbService, m)
	srv.RegisterRoutes()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", httpServer.Addr).Msg("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
