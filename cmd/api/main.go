package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/noder-app/noder-backend/config"
	httpapi "github.com/noder-app/noder-backend/internal/api/http"
	"github.com/noder-app/noder-backend/internal/auth"
	bpservice "github.com/noder-app/noder-backend/internal/blueprint/service"
	"github.com/noder-app/noder-backend/internal/bootstrap"
	editorrepo "github.com/noder-app/noder-backend/internal/editor/repository"
	editorsvc "github.com/noder-app/noder-backend/internal/editor/service"
	filerepo "github.com/noder-app/noder-backend/internal/files/repository"
	filesvc "github.com/noder-app/noder-backend/internal/files/service"
	"github.com/noder-app/noder-backend/internal/generation/client"
	"github.com/noder-app/noder-backend/internal/generation/proxy"
	"github.com/noder-app/noder-backend/internal/platform/logging"
	cronjob "github.com/noder-app/noder-backend/internal/projects/cron"
	projectrepo "github.com/noder-app/noder-backend/internal/projects/repository"
	projectsvc "github.com/noder-app/noder-backend/internal/projects/service"
	"github.com/noder-app/noder-backend/internal/storage/postgres"
)

const serviceName = "noder-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.Init(cfg.App.LogLevel, cfg.App.LogFormat)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	}

	var pool *pgxpool.Pool
	if cfg.Database.DSN != "" {
		pool, err = bootstrap.OpenDB(ctx, bootstrap.DBOptions{
			DSN:      cfg.Database.DSN,
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer pool.Close()
		if err := postgres.CreateSchema(ctx, pool); err != nil {
			log.Fatalf("db: %v", err)
		}
		deps.DBPing = pool
	} else {
		logger.Warn("DB_DSN not set, projects and files API disabled")
	}

	var store editorrepo.Store = editorrepo.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		store = editorrepo.NewRedisStore(rdb, cfg.Redis.SessionTTL)
		deps.RedisPing = redisPing(rdb)
	} else {
		logger.Warn("REDIS_ADDR not set, editor sessions are kept in memory")
	}

	if cfg.UseFirebase() {
		fb, err := auth.InitializeFirebase(ctx, cfg.Firebase.CredentialsPath)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		deps.Auth = auth.FirebaseAuthMiddleware(fb)
	} else {
		logger.Warn("AUTH_MODE=optional, trusting X-User-Id")
		deps.Auth = auth.OptionalUser()
	}

	// a nil Completer makes the proxy answer with the model-initialization error
	var llm proxy.Completer
	completer, err := proxy.NewOpenAICompleter(proxy.ModelConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: float32(cfg.LLM.Temperature),
		TopP:        float32(cfg.LLM.TopP),
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		logger.Error("model not configured", "error", err)
	} else {
		llm = completer
	}
	deps.Proxy = proxy.NewHandler(llm, cfg.LLM.Repair, proxy.NewLimiter(cfg.LLM.RatePerMinute, cfg.LLM.Burst))

	generatorURL := cfg.Generator.BaseURL
	if generatorURL == "" {
		generatorURL = "http://127.0.0.1:" + cfg.Server.Port
	}
	pipeline := bpservice.NewPipeline()
	deps.Pipeline = pipeline
	deps.Editor = editorsvc.NewEditorService(store, client.New(generatorURL, cfg.Generator.Timeout), pipeline, editorsvc.DefaultLockTTL)

	var purge *cronjob.Scheduler
	if pool != nil {
		projects := projectrepo.New(pool)
		deps.Projects = projectsvc.NewProjectService(projects)
		deps.Files = filesvc.NewFileService(filerepo.New(pool), pipeline)

		purge = cronjob.NewScheduler(projects, cfg.App.PurgeAfter)
		if err := purge.Start(cfg.App.PurgeSchedule); err != nil {
			log.Fatalf("cron: %v", err)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.App.Environment, "gin_mode", gin.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if purge != nil {
		purge.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func redisPing(rdb *redis.Client) httpapi.PingFunc {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
