package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/ai"
	"github.com/xxxsen/nextstep/internal/config"
	"github.com/xxxsen/nextstep/internal/db"
	"github.com/xxxsen/nextstep/internal/embedcache"
	"github.com/xxxsen/nextstep/internal/embedding"
	"github.com/xxxsen/nextstep/internal/filestore"
	"github.com/xxxsen/nextstep/internal/handler"
	"github.com/xxxsen/nextstep/internal/job"
	"github.com/xxxsen/nextstep/internal/middleware"
	"github.com/xxxsen/nextstep/internal/pkg/secret"
	"github.com/xxxsen/nextstep/internal/queue"
	"github.com/xxxsen/nextstep/internal/recommend"
	"github.com/xxxsen/nextstep/internal/repo"
	"github.com/xxxsen/nextstep/internal/schedule"
	"github.com/xxxsen/nextstep/internal/service"
)

// newEmbeddingEngine wires the configured provider behind the lru cache and,
// when conn is given and enabled, the database cache. Availability probes
// bypass both caches.
func newEmbeddingEngine(cfg config.EmbeddingConfig, conn *sql.DB) (*embedding.Engine, error) {
	provider, err := ai.NewEmbedProvider(cfg.Provider, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("init embedding provider: %w", err)
	}
	var cacheRepo *repo.EmbeddingCacheRepo
	if conn != nil && cfg.DBCache {
		cacheRepo = repo.NewEmbeddingCacheRepo(conn)
	}
	resolve := func(model string) (embedding.Tier, error) {
		raw := ai.NewEmbedder(provider, model)
		emb := raw
		if cacheRepo != nil {
			emb = embedcache.WrapDBCacheToEmbedder(emb, cacheRepo)
		}
		if cfg.CacheSize > 0 {
			emb = embedcache.WrapLruCacheToEmbedder(emb, cfg.CacheSize, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		}
		return embedding.Tier{Probe: raw, Serve: emb}, nil
	}
	return embedding.NewEngine(embedding.Config{
		PrimaryModel:  cfg.PrimaryModel,
		FallbackModel: cfg.FallbackModel,
		Dimension:     cfg.Dimension,
	}, resolve), nil
}

func runServer(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := logutil.GetLogger(ctx)
	logger.Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("queue", cfg.Queue.Type),
	)

	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()
	if err := db.ApplyMigrations(ctx, conn); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	engine, err := newEmbeddingEngine(cfg.Embedding, conn)
	if err != nil {
		return err
	}
	gateway, err := ai.NewGateway(ai.GatewayConfig{
		Timeout:   time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		Providers: cfg.AI.Providers,
	})
	if err != nil {
		return fmt.Errorf("init ai gateway: %w", err)
	}
	composer := ai.NewComposer(gateway)
	box, err := secret.NewBox(cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("init secret box: %w", err)
	}

	userRepo := repo.NewUserRepo(conn)
	resumeRepo := repo.NewResumeRepo(conn)
	bulletRepo := repo.NewBulletRepo(conn)
	jobRepo := repo.NewJobRepo(conn)
	embeddingRepo := repo.NewEmbeddingRepo(conn)
	recRepo := repo.NewRecommendationRepo(conn)
	settingsRepo := repo.NewSettingsRepo(conn)
	cacheRepo := repo.NewEmbeddingCacheRepo(conn)

	embeddingService := service.NewEmbeddingService(engine, embeddingRepo, resumeRepo, jobRepo)
	settingsService := service.NewSettingsService(settingsRepo, box, cfg.AI)
	orchestrator := recommend.NewOrchestrator(recommend.Deps{
		Resumes:         resumeRepo,
		Jobs:            jobRepo,
		Bullets:         bulletRepo,
		Settings:        settingsService,
		Recommendations: recRepo,
		Composer:        composer,
	})

	tasks, err := queue.New(cfg.Queue)
	if err != nil {
		return fmt.Errorf("init queue: %w", err)
	}
	// running recommendations finish on shutdown; Close drains the rest
	if err := tasks.Start(context.WithoutCancel(ctx), orchestrator.Handle); err != nil {
		_ = tasks.Close()
		return fmt.Errorf("start queue: %w", err)
	}
	defer func() {
		if err := tasks.Close(); err != nil {
			logger.Warn("close queue failed", zap.Error(err))
		}
	}()

	scheduler := schedule.NewCronScheduler()
	if _, err := scheduler.Register(
		schedule.Entry{Job: job.NewEmbeddingBackfillJob(embeddingService, cfg.Schedule.BackfillBatch), Spec: cfg.Schedule.BackfillSpec},
		schedule.Entry{Job: job.NewEmbeddingCacheCleanupJob(cacheRepo, cfg.Schedule.CacheMaxAgeDays), Spec: cfg.Schedule.CacheCleanupSpec},
	); err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	resumeService := service.NewResumeService(resumeRepo, store, embeddingService, cfg.UploadLimitMB<<20)
	jobService := service.NewJobService(jobRepo, resumeRepo, embeddingService, tasks)
	matchService := service.NewMatchService(resumeRepo, jobRepo, embeddingService)
	improveService := service.NewImproveService(resumeRepo, jobRepo, bulletRepo, settingsService, composer)
	messageService := service.NewMessageService(resumeRepo, jobRepo, settingsService, composer, service.NewEmailSender(cfg.Mail))
	recService := service.NewRecommendationService(recRepo, resumeRepo, jobRepo)

	deps := handler.RouterDeps{
		Auth:            handler.NewAuthHandler(authService),
		Resumes:         handler.NewResumeHandler(resumeService),
		Jobs:            handler.NewJobHandler(jobService),
		Match:           handler.NewMatchHandler(matchService, improveService),
		Messages:        handler.NewMessageHandler(messageService),
		Recommendations: handler.NewRecommendationHandler(recService),
		Settings:        handler.NewSettingsHandler(settingsService),
		JWTSecret:       []byte(cfg.JWTSecret),
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	web, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logger.Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := web.Run(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("server stopping...")
	return nil
}
