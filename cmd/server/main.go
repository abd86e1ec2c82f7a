package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/portfolio/internal/config"
	"github.com/Skotchmaster/portfolio/internal/events"
	"github.com/Skotchmaster/portfolio/internal/httpserver"
	"github.com/Skotchmaster/portfolio/internal/media"
	"github.com/Skotchmaster/portfolio/internal/metrics"
	authmw "github.com/Skotchmaster/portfolio/internal/middleware/auth"
	"github.com/Skotchmaster/portfolio/internal/repo"
	"github.com/Skotchmaster/portfolio/internal/revoke"
	"github.com/Skotchmaster/portfolio/internal/search"
	"github.com/Skotchmaster/portfolio/internal/service"
	"github.com/Skotchmaster/portfolio/internal/views"
	"github.com/Skotchmaster/portfolio/pkg/db"
	"github.com/Skotchmaster/portfolio/pkg/logging"
	loggingmw "github.com/Skotchmaster/portfolio/pkg/middleware/logging"
	"github.com/Skotchmaster/portfolio/pkg/tokens"
)

type dbPinger struct{ db *gorm.DB }

func (p dbPinger) Ping(ctx context.Context) error { return db.Ping(ctx, p.db) }

func fatal(l *slog.Logger, msg string, err error) {
	l.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	iss, err := tokens.NewIssuer([]byte(cfg.JWTSecret), []byte(cfg.RefreshSecret))
	if err != nil {
		fatal(logger, "token_issuer_init_failed", err)
	}

	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		fatal(logger, "db_init_failed", err)
	}
	defer db.Close(gdb)

	store := repo.New(gdb)
	if err := store.Migrate(initCtx); err != nil {
		fatal(logger, "db_migrate_failed", err)
	}

	checks := map[string]httpserver.Pinger{"postgres": dbPinger{gdb}}

	var viewStore service.ViewStore = &repo.GormViews{DB: gdb}
	if cfg.Mongo.URI != "" {
		mongoViews, err := views.New(initCtx, cfg.Mongo.URI, cfg.Mongo.DB)
		if err != nil {
			fatal(logger, "mongo_init_failed", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mongoViews.Close(ctx)
		}()
		viewStore = mongoViews
		checks["mongo"] = mongoViews
		logger.Info("views_backend", "backend", "mongo", "db", cfg.Mongo.DB)
	}

	var revoked service.RevocationStore
	if cfg.Redis.URL != "" {
		client, err := revoke.Connect(initCtx, cfg.Redis.URL)
		if err != nil {
			fatal(logger, "redis_init_failed", err)
		}
		defer func(c *redis.Client) { _ = c.Close() }(client)
		rs := revoke.NewRedisStore(client)
		revoked = rs
		checks["redis"] = rs
	} else {
		logger.Warn("revocation_disabled", "reason", "REDIS_URL is empty")
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			fatal(logger, "kafka_init_failed", err)
		}
		publisher = kp
	}
	defer publisher.Close()

	var index service.ProjectIndex
	if cfg.Elastic.URL != "" {
		es, err := search.NewClient(initCtx, cfg.Elastic.URL, cfg.Elastic.User, cfg.Elastic.Password)
		if err != nil {
			fatal(logger, "elasticsearch_init_failed", err)
		}
		ix := search.NewIndex(es, cfg.Elastic.Index)
		if err := ix.EnsureIndex(initCtx); err != nil {
			fatal(logger, "elasticsearch_index_failed", err)
		}
		index = ix
		checks["elasticsearch"] = ix
	} else {
		logger.Warn("search_disabled", "reason", "ES_URL is empty")
	}

	var objects media.Store
	if cfg.S3.Endpoint != "" {
		ms, err := media.NewMinioStore(initCtx, media.MinioConfig{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			fatal(logger, "s3_init_failed", err)
		}
		objects = ms
		checks["s3"] = ms
	} else {
		ds, err := media.NewDiskStore(cfg.UploadDir)
		if err != nil {
			fatal(logger, "upload_dir_init_failed", err)
		}
		objects = ds
	}

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.Origins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, authmw.HeaderAuthToken},
		ExposeHeaders: []string{authmw.HeaderAuthToken},
	}))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Users:   store,
			Tokens:  iss,
			Revoked: revoked,
			Events:  publisher,
			Metrics: m,
		}},
		UserHandler:     &httpserver.UserHTTP{Svc: &service.UserService{Users: store, Events: publisher}},
		ProjectHandler:  &httpserver.ProjectHTTP{Svc: &service.ProjectService{Store: store, Index: index, Events: publisher}},
		SkillHandler:    &httpserver.SkillHTTP{Svc: &service.SkillService{Store: store}},
		TimelineHandler: &httpserver.TimelineHTTP{Svc: &service.TimelineService{Store: store}},
		ContactHandler:  &httpserver.ContactHTTP{Svc: &service.ContactService{Store: store, Events: publisher}},
		ViewHandler:     &httpserver.ViewHTTP{Svc: &service.ViewService{Store: viewStore}},
		MediaHandler:    &httpserver.MediaHTTP{Svc: &service.MediaService{Store: objects, Events: publisher}},
		AuthMW:          authmw.NewAutoRefreshMiddleware(iss, m),
		Metrics:         m,
		Checks:          checks,
		BodyLimit:       cfg.BodyLimit,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_failed", "error", err)
	}
	logger.Info("http_server_stopped")
}
