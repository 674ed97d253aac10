package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/statement-ledger/internal/api"
	"github.com/sheikh-saqib/statement-ledger/internal/cache"
	"github.com/sheikh-saqib/statement-ledger/internal/config"
	"github.com/sheikh-saqib/statement-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/statement-ledger/internal/ledger"
	"github.com/sheikh-saqib/statement-ledger/internal/models"
	"github.com/sheikh-saqib/statement-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/statement-ledger/internal/storage/postgres"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("env", cfg.Env),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("kafka", cfg.Kafka.Enabled),
	)

	opts, closeDeps := optionalDeps(cfg, log)
	defer closeDeps()
	opts = append(opts, ledger.WithLogger(log.Named("ledger")))

	var ledgerService *ledger.Ledger
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.Open(context.Background(), cfg.Postgres.URL(), cfg.Postgres.MaxOpenConns)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func(db *sql.DB) {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database", zap.Error(err))
			}
		}(db)

		opts = append(opts, ledger.WithLocker(postgres.NewAdvisoryLocker(db, cfg.Postgres.LockTimeout)))
		ledgerService = ledger.NewLedger(
			postgres.NewPostgresStatementStore(db),
			postgres.NewUserDirectory(db),
			opts...,
		)
	default:
		users := memory.NewUserDirectory()
		for _, u := range cfg.SeedUsers {
			users.Add(models.User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: time.Now().UTC()})
		}
		log.Info("Seeded in-memory user directory", zap.Int("users", len(cfg.SeedUsers)))

		ledgerService = ledger.NewLedger(
			memory.NewMemoryStatementStore(),
			users,
			opts...,
		)
	}

	apiServer := api.New(cfg, log.Named("api"), ledgerService)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		apiServer.MustStart()
	}()

	<-sigChan
	log.Info("Got signal to shutdown server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Stop(ctx); err != nil {
		log.Error("Stopping server error", zap.Error(err))
	}
}

// optionalDeps wires the balance cache and the event publisher when enabled.
// The returned func closes whatever was opened.
func optionalDeps(cfg *config.Config, log *zap.Logger) ([]ledger.Option, func()) {
	var (
		opts    []ledger.Option
		closers []func() error
	)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		closers = append(closers, rdb.Close)
		opts = append(opts, ledger.WithBalanceCache(cache.NewBalanceCache(rdb, cfg.Redis.TTL)))
	}

	if cfg.Kafka.Enabled {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers)
		closers = append(closers, publisher.Close)
		opts = append(opts, ledger.WithEventPublisher(publisher))
	}

	return opts, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Error("Failed to close dependency", zap.Error(err))
			}
		}
	}
}

func setupLogger(env string) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	switch env {
	case envDev:
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		log, err = zcfg.Build()
	case envProd:
		log, err = zap.NewProduction()
	default: // local
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	return log
}
