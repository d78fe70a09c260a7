package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/journohub/internal/assist"
	"github.com/Skotchmaster/journohub/internal/cache"
	"github.com/Skotchmaster/journohub/internal/events"
	"github.com/Skotchmaster/journohub/internal/httpserver"
	"github.com/Skotchmaster/journohub/internal/repo"
	"github.com/Skotchmaster/journohub/internal/search"
	"github.com/Skotchmaster/journohub/internal/service"
	"github.com/Skotchmaster/journohub/internal/storage"
	"github.com/Skotchmaster/journohub/pkg/config"
	pkgdb "github.com/Skotchmaster/journohub/pkg/db"
	"github.com/Skotchmaster/journohub/pkg/logging"
	"github.com/Skotchmaster/journohub/pkg/tokens"
)

func main() {
	cfg := config.Load()
	cfg.MustValid()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pkgdb.Migrate(ctx, cfg.DatabaseURL); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		publisher = p
	} else {
		logger.Warn("kafka disabled", "reason", "KAFKA_BROKERS not set")
	}

	var index search.Index
	if cfg.ESURL != "" {
		x, err := search.NewESIndex(ctx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("elasticsearch unavailable, searching the database", "error", err)
		} else {
			index = x
		}
	}

	var featured cache.Featured = cache.Nop{}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis unavailable, featured cache disabled", "error", err)
		} else {
			featured = cache.NewRedisFeatured(rdb, cfg.FeaturedCacheTTL)
		}
	}

	var store storage.Store = &storage.LocalStore{Dir: cfg.UploadDir, BaseURL: cfg.UploadBaseURL}
	localUploads := cfg.UploadDir
	if cfg.S3Bucket != "" {
		s3store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatalf("s3 store: %v", err)
		}
		store = s3store
		localUploads = ""
	}

	var suggester service.Suggester
	ai, err := assist.NewClient(assist.Config{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	})
	switch {
	case errors.Is(err, assist.ErrNotConfigured):
		logger.Warn("ai assistant disabled", "reason", "AI_API_KEY not set")
	case err != nil:
		log.Fatalf("ai client: %v", err)
	default:
		suggester = ai
	}

	r := repo.New(db)
	tok := tokens.NewService(cfg.JWTSecret, cfg.TokenTTL)

	authSvc := &service.AuthService{Repo: r, Tokens: tok, Events: publisher}
	userSvc := &service.UserService{Repo: r, Events: publisher, Search: index, Cache: featured}
	articleSvc := &service.ArticleService{Repo: r, Events: publisher, Index: index, Cache: featured}

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := userSvc.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("seed admin: %v", err)
		}
	}
	cancel()

	e := httpserver.NewEcho(logger)
	httpserver.Register(e, &httpserver.Deps{
		DB:       db,
		Tokens:   tok,
		Auth:     &httpserver.AuthHTTP{Svc: authSvc},
		Users:    &httpserver.UsersHTTP{Svc: userSvc},
		Articles: &httpserver.ArticlesHTTP{Svc: articleSvc},
		Stats:    &httpserver.StatsHTTP{Svc: &service.StatsService{Repo: r}},
		Media:    &httpserver.MediaHTTP{Svc: &service.MediaService{Store: store, Timeout: cfg.UploadTimeout}},
		Assist:   &httpserver.AssistHTTP{Svc: &service.AssistService{AI: suggester, Timeout: cfg.AITimeout}},

		LocalUploadDir: localUploads,
		LocalUploadURL: cfg.UploadBaseURL,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db close", "error", err)
	}

	logger.Info("stopped")
}
