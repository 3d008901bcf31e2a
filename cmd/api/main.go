package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/api"
	"github.com/pageza/fridgechef/backend/internal/database"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/server"
	"github.com/pageza/fridgechef/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis backs the search cache and the rate limiter; both are optional
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache and rate limiting", zap.Error(err))
		redisClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profiles := service.NewProfileService(db)
	recipes := service.NewRecipeService(db)
	fridge := service.NewFridgeService(db)
	shopping := service.NewShoppingService(db)
	bonus := service.NewBonusService(db, service.NewSampleBonusSource(), newArchive(ctx, cfg), cfg.Bonus.FetchTimeout)
	engine := service.NewRecommendationEngine(profiles, recipes, newRecipeSource(cfg, redisClient), newGenerator(cfg), service.EngineOptions{
		SourceTimeout:    cfg.Spoonacular.Timeout,
		GeneratorTimeout: cfg.LLM.Timeout,
	})

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewRecommendationRateLimiter(redisClient, cfg.RateLimit.Recommendations, cfg.RateLimit.Window)
	}

	srv := server.New(cfg.Server, api.Services{
		Auth:                  service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.TTL),
		Profiles:              profiles,
		Constraints:           profiles,
		Fridge:                fridge,
		Recipes:               recipes,
		Recommender:           engine,
		Shopping:              shopping,
		Bonus:                 bonus,
		Dashboard:             service.NewDashboardService(fridge, recipes, shopping),
		Admin:                 service.NewAdminService(db, bonus),
		RecommendationLimiter: limiter,
	})

	var schedulerDone <-chan struct{}
	if cfg.Bonus.Enabled {
		schedulerDone = service.NewBonusScheduler(bonus, cfg.Bonus.StartupDelay, cfg.Bonus.ScheduleWeekday, cfg.Bonus.ScheduleHour).Start(ctx)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
		}
		stop()
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if schedulerDone != nil {
		select {
		case <-schedulerDone:
		case <-shutdownCtx.Done():
			logger.Warn("Bonus scheduler did not stop in time")
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logger.Info("Server stopped")
}

// newRecipeSource uses Spoonacular when a key is configured and the built-in
// sample recipes otherwise
func newRecipeSource(cfg *config.Config, redisClient *redis.Client) service.RecipeSource {
	if cfg.Spoonacular.APIKey == "" {
		logger.Info("No Spoonacular API key, serving sample recipes")
		return service.NewSampleRecipeSource()
	}
	var cache service.SearchCache
	if redisClient != nil {
		cache = service.NewRedisSearchCache(redisClient, cfg.Redis.SearchTTL)
	}
	return service.NewSpoonacularClient(cfg.Spoonacular, cache)
}

func newGenerator(cfg *config.Config) service.RecipeGenerator {
	if cfg.LLM.APIKey == "" {
		logger.Info("No LLM API key, generated recipes use the template")
		return nil
	}
	return service.NewDeepSeekGenerator(cfg.LLM)
}

// newArchive returns nil when no bucket is configured or S3 cannot be set up
func newArchive(ctx context.Context, cfg *config.Config) service.BonusArchive {
	if cfg.Archive.Bucket == "" {
		return nil
	}
	s3cfg, err := config.NewS3Config(ctx, cfg.Archive)
	if err != nil {
		logger.Warn("S3 archive disabled", zap.Error(err))
		return nil
	}
	return service.NewS3BonusArchive(s3cfg)
}
