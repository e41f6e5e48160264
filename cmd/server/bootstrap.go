package main

import (
	"time"

	"github.com/nathantkn/restockd/internal/config"
	"github.com/nathantkn/restockd/internal/handlers"
	"github.com/nathantkn/restockd/internal/models"
	"github.com/nathantkn/restockd/internal/services"
	"github.com/nathantkn/restockd/internal/utils"
	"github.com/nathantkn/restockd/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cache             *services.ViewCache
	indexService      *services.SearchIndexService
	taskQueue         services.TaskQueue
	worker            *services.Worker
	authHandler       *handlers.AuthHandler
	postingHandler    *handlers.PostingHandler
	meetupHandler     *handlers.MeetupHandler
	timeChangeHandler *handlers.TimeChangeHandler
	aggregatorHandler *handlers.AggregatorHandler
	searchHandler     *handlers.SearchHandler
	healthHandler     *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// View cache for composed reads
	cache := services.NewViewCache(time.Duration(cfg.Cache.TTLSeconds) * time.Second)

	// Search index and its periodic rebuild
	indexService := services.NewSearchIndexService(db)
	if err := indexService.Rebuild(); err != nil {
		logger.Warn().Err(err).Msg("Initial index build failed")
	}
	indexService.StartScheduler()

	// Task queue for index refreshes (Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(indexService.Process)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(indexService.Process)
			worker.Start()
		}
	}

	postingService := services.NewPostingService(db, cache, taskQueue)
	meetupService := services.NewMeetupService(db, cache)
	timeChangeService := services.NewTimeChangeService(db, cache)
	aggregatorService := services.NewAggregatorService(db, cache)

	return &appServices{
		cache:             cache,
		indexService:      indexService,
		taskQueue:         taskQueue,
		worker:            worker,
		authHandler:       handlers.NewAuthHandler(db, cfg),
		postingHandler:    handlers.NewPostingHandler(postingService),
		meetupHandler:     handlers.NewMeetupHandler(meetupService),
		timeChangeHandler: handlers.NewTimeChangeHandler(timeChangeService),
		aggregatorHandler: handlers.NewAggregatorHandler(aggregatorService),
		searchHandler:     handlers.NewSearchHandler(indexService),
		healthHandler:     handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.indexService.StopScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	s.cache.Close()
}
