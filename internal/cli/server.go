package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dota-picker-service/internal/app"
	"dota-picker-service/internal/config"
	"dota-picker-service/internal/content"
	"dota-picker-service/internal/logger"
	"dota-picker-service/internal/metrics"

	"dota-picker-service/internal/infra/memory"
	infrapg "dota-picker-service/internal/infra/postgres"
	infraredis "dota-picker-service/internal/infra/redis"
	transport "dota-picker-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the picker server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	// Static content is loaded and validated once; an incomplete content
	// table aborts startup instead of failing a user request later.
	store, err := content.Load()
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var results app.ResultRepository = memory.NewResultRepository()
	var tokens app.TokenStore = memory.NewTokenStore()
	if pool != nil {
		results = infrapg.NewResultRepository(pool)
		tokens = infrapg.NewTokenStore(pool)
	}
	if redisClient != nil {
		cacheTTL := config.TTLDuration(cfg.Redis.CacheTTL, 10*time.Minute)
		results = infraredis.NewResultCache(redisClient, results, cacheTTL)
		tokens = infraredis.NewTokenStore(redisClient)
	}

	m := metrics.New()
	service := app.NewPickerService(results, store, log, m)
	handler := transport.NewHandler(service, tokens, log)
	wsHandler := transport.NewWSHandler(service, tokens, log)

	mux := http.NewServeMux()
	handler.Routes(mux)
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting picker service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
