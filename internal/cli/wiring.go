package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"traffic-quiz/internal/app"
	"traffic-quiz/internal/config"
	"traffic-quiz/internal/content"
	"traffic-quiz/internal/infra/file"
	"traffic-quiz/internal/infra/memory"
	pgloader "traffic-quiz/internal/infra/postgres"
	rediscache "traffic-quiz/internal/infra/redis"
	"traffic-quiz/internal/infra/sqlite"
	"traffic-quiz/internal/logger"
)

// env bundles what every subcommand needs. close releases connections opened for it.
type env struct {
	cfg     config.Config
	logger  *zap.Logger
	closers []func()
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if appEnv := os.Getenv("APP_ENV"); appEnv != "" {
		cfg.Env = appEnv
	}
	if bankID != "" {
		cfg.Bank.ID = bankID
	}
	if bankSource != "" {
		cfg.Bank.Source = bankSource
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &env{cfg: cfg, logger: log}, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	_ = e.logger.Sync()
}

func (e *env) ruleOptions() []app.Option {
	return []app.Option{app.WithRuleConfig(app.RuleConfig{
		TrafficLightQuestionID: e.cfg.Rules.TrafficLightQuestionID,
		TopStudentScore:        e.cfg.Rules.TopStudentScore,
	})}
}

// service wires the configured loader behind a Redis or in-process cache.
func (e *env) service(ctx context.Context) (*app.QuizService, error) {
	loader, err := e.loader(ctx)
	if err != nil {
		return nil, err
	}

	cacheTTL := config.TTLDuration(e.cfg.Cache.TTL, 10*time.Minute)
	var banks app.BankRepository
	if e.cfg.Redis.Addr != "" {
		redisTTL := config.TTLDuration(e.cfg.Redis.TTL, cacheTTL)
		banks = rediscache.NewBankRepository(e.redisClient(), loader, redisTTL, e.logger)
	} else {
		banks = memory.NewBankRepository(loader, cacheTTL, e.logger)
	}

	return app.NewQuizService(banks, e.logger, e.ruleOptions()...), nil
}

func (e *env) redisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     e.cfg.Redis.Addr,
		Password: e.cfg.Redis.Password,
		DB:       e.cfg.Redis.DB,
	})
	e.closers = append(e.closers, func() { _ = client.Close() })
	return client
}

// invalidateCache drops a Redis-cached copy of bankID so the next play sees freshly seeded content.
// Without Redis there is nothing shared to invalidate.
func (e *env) invalidateCache(ctx context.Context, bankID string) error {
	if e.cfg.Redis.Addr == "" {
		return nil
	}
	return rediscache.NewBankRepository(e.redisClient(), nil, 0, e.logger).Invalidate(ctx, bankID)
}

func (e *env) loader(ctx context.Context) (memory.BankLoader, error) {
	source := e.cfg.Bank.Source
	e.logger.Debug("bank source", zap.String("source", source), zap.String("bank", e.cfg.Bank.ID))

	switch source {
	case "", config.SourceStatic:
		return memory.NewStaticBankLoader(content.Banks()), nil
	case config.SourceFile:
		return file.NewBankLoader(e.cfg.Bank.Dir), nil
	case config.SourcePostgres:
		pool, err := e.openPostgres(ctx)
		if err != nil {
			return nil, err
		}
		return pgloader.NewBankLoader(pool), nil
	case config.SourceSQLite:
		store, err := e.openSQLite()
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown bank source %q", source)
	}
}

func (e *env) openPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	if e.cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("postgres url not configured")
	}
	pool, err := pgxpool.Connect(ctx, e.cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	e.closers = append(e.closers, pool.Close)
	return pool, nil
}

func (e *env) openSQLite() (*sqlite.BankStore, error) {
	store, err := sqlite.Open(e.cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, func() { _ = store.Close() })
	return store, nil
}
