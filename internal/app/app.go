package app

import (
	"context"
	"log/slog"

	httpapp "prompt_galeri/internal/app/http"
	"prompt_galeri/internal/config"
	"prompt_galeri/internal/repository"
	optimizer_service "prompt_galeri/internal/services/optimizer_service"
	prompt_service "prompt_galeri/internal/services/prompt_service"
	filestorage "prompt_galeri/internal/storage/filestorage"
	"prompt_galeri/internal/storage/genai"
	redisapp "prompt_galeri/internal/storage/redis"
	httprouters "prompt_galeri/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	log   *slog.Logger
	repo  *repository.Repository
	redis *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	repo, err := repository.NewRepository(ctx, cfg.DSN)
	if err != nil {
		panic(err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	listCache := repository.NewRedisListCache(redisClient)

	blobStorage, err := filestorage.NewLocalBlobStorage(
		cfg.FileStorage.BaseDir,
		cfg.FileStorage.BaseURL,
		cfg.FileStorage.MaxSize,
	)
	if err != nil {
		panic(err)
	}

	promptService := prompt_service.NewPromptService(log, repo.Prompt, listCache, cfg.Redis.ListTTL)

	genClient := genai.NewClient(cfg.Optimizer.Endpoint, cfg.Optimizer.APIKey)
	optimizerService := optimizer_service.NewOptimizerService(log, genClient, cfg.Optimizer.Model, cfg.Optimizer.CacheTTL)

	routers := httprouters.NewRouter(log, promptService, optimizerService, blobStorage, cfg.AdminGate)

	server := httpapp.New(log, cfg.AdminGate.SessionKey, cfg.HTTP.Host, cfg.HTTP.Port, cfg.FileStorage.BaseDir, routers)
	server.RegisterHealth(repo.HealthCheck)

	return &App{
		HTTPServer: server,
		log:        log,
		repo:       repo,
		redis:      redisClient,
	}
}

func (a *App) Stop() {
	const op = "app.Stop"

	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error(op, slog.String("http", err.Error()))
	}

	a.repo.Close()

	if err := a.redis.Stop(); err != nil {
		a.log.Error(op, slog.String("redis", err.Error()))
	}
}
