package main

import (
	"context"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/auth"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/cache"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/config"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/gemini"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/handler"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/interview"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/logger"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/metrics"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/session"
	"go.uber.org/zap"
)

type application struct {
	Redis    *redis.Client
	Logger   *zap.Logger
	Config   *config.Config
	Metrics  *metrics.Metrics
	Sessions *session.Manager
	Handler  *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateServer(); err != nil {
		panic(err)
	}

	var logOpts []logger.Option
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logger.WithFile(cfg.LogFile))
	}
	log, _ := logger.NewLogger(cfg.Env, logOpts...)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, %s", cfg)

	m := metrics.New()

	var oracle interview.Oracle
	if cfg.Gemini.Enabled {
		oracle = gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, cfg.Gemini.Timeout)
	} else {
		sugar.Warn("gemini disabled, every answer gets fallback content")
	}

	var (
		store session.Store = session.NopStore{}
		rdb   *redis.Client
	)
	if cfg.RedisEnabled() {
		rdb, err = cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sugar.Fatal(err)
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb)
	}

	sessions := session.NewManager(session.Options{
		Store:    store,
		TTL:      cfg.Session.TTL,
		Oracle:   oracle,
		Logger:   log,
		Recorder: m,
	})
	m.TrackSessions(sessions.Count)

	app := &application{
		Redis:    rdb,
		Logger:   log,
		Config:   cfg,
		Metrics:  m,
		Sessions: sessions,
		Handler: &handler.Handler{
			Logger:     log,
			Sessions:   sessions,
			TokenMaker: auth.NewTokenMaker(cfg.JWT.Secret, cfg.JWT.SessionTTL),
		},
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
