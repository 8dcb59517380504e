package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/config"
	"solo-quiz-service/internal/domain"
	"solo-quiz-service/internal/gateway"
	"solo-quiz-service/internal/infra/localfile"
	"solo-quiz-service/internal/infra/memory"
	mongostore "solo-quiz-service/internal/infra/mongo"
	pgstore "solo-quiz-service/internal/infra/postgres"
	redisinfra "solo-quiz-service/internal/infra/redis"
	"solo-quiz-service/internal/logger"
	transport "solo-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logger.Setup(slog.LevelInfo)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		poolTTL := config.Duration(cfg.Redis.PoolTTL, 10*time.Minute)
		store = redisinfra.NewPoolCache(client, store, poolTTL)
		slog.Info("question pool cached in redis", "addr", cfg.Redis.Addr, "ttl", poolTTL)
	}

	var names app.NameCache
	namePath := cfg.NameCache.Path
	if namePath == "" {
		namePath = "data/display-name"
	}
	names = localfile.NewNameCache(namePath)

	timeout := config.Duration(cfg.Gateway.Timeout, gateway.DefaultTimeout)
	gw := gateway.New(memory.NewAuthProvider(), store, timeout)

	var opts []app.Option
	if cfg.Quiz.SessionSize > 0 {
		opts = append(opts, app.WithSessionSize(cfg.Quiz.SessionSize))
	}
	factory := func() *app.Controller {
		return app.NewController(gw, names, opts...)
	}
	wsHandler := transport.NewWSHandler(factory)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:    ":" + finalPort,
		Handler: mux,
	}

	go func() {
		slog.Info("starting quiz session service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		slog.Info("shutting down server...")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildStore picks the document store backend: Mongo when configured, then
// Postgres, else the in-memory sample pool for dev mode.
func buildStore(ctx context.Context, cfg config.Config) (gateway.DocumentStore, func(), error) {
	if cfg.Mongo.URI != "" {
		client, err := mongodriver.Connect(ctx, mongooptions.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, nil, err
		}
		dbName := cfg.Mongo.Database
		if dbName == "" {
			dbName = "quiz"
		}
		slog.Info("using mongo document store", "database", dbName)
		cleanup := func() {
			_ = client.Disconnect(context.Background())
		}
		return mongostore.NewDocumentStore(client.Database(dbName)), cleanup, nil
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using postgres document store")
		return pgstore.NewDocumentStore(pool), pool.Close, nil
	}

	slog.Info("no store configured, using in-memory sample pool")
	return memory.NewDocumentStore(samplePool()), func() {}, nil
}

// samplePool is a minimal question set for running without a backend.
func samplePool() []domain.Question {
	return []domain.Question{
		{
			ID:      "q1",
			Prompt:  "2+2?",
			Options: []string{"3", "4", "5"},
			Answer:  "4",
		},
		{
			ID:          "q2",
			Prompt:      "日本の首都は？",
			Options:     []string{"大阪", "東京", "京都"},
			Answer:      "東京",
			Explanation: "1869年以降、日本の首都機能は東京に置かれています。",
		},
		{
			ID:      "q3",
			Prompt:  "Which planet is closest to the sun?",
			Options: []string{"Venus", "Mercury", "Mars"},
			Answer:  "Mercury",
		},
	}
}
