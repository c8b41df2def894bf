package router

import (
	app "github.com/sideshelf/sideshelf/internal/application"
	"github.com/sideshelf/sideshelf/internal/cascade"
	"github.com/sideshelf/sideshelf/internal/container"
	fsinfra "github.com/sideshelf/sideshelf/internal/infrastructure/firestore"
	handlers "github.com/sideshelf/sideshelf/internal/interface/http"
	"github.com/sideshelf/sideshelf/internal/router/modules"
	"github.com/sideshelf/sideshelf/pkg/weather"
)

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	client := container.GetFirestore()

	store := fsinfra.NewStore(client)
	engine := cascade.NewEngine(store, cascade.DefaultLimits, logger)
	container.SetCascade(engine)

	userRepo := fsinfra.NewUserRepository(client)
	projectRepo := fsinfra.NewProjectRepository(client)
	engagementRepo := fsinfra.NewEngagementRepository(client)
	digestRepo := fsinfra.NewDigestRepository(client)
	activityRepo := fsinfra.NewActivityLogRepository(client)

	indexer := &app.ProjectIndexer{
		ES:     container.GetES(),
		IndexName: cfg.ESProjectsIndex,
		Logger: logger,
	}

	userSvc := &app.UserService{
		Repo:      userRepo,
		Projects:  projectRepo,
		Cascade:   engine,
		JWT:       container.GetJWT(),
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,
		Redis:     container.GetRedis(),
		Logger:    logger,
		Pub:       container.GetRabbitPub(),
		Indexer:   indexer,
		Activity:  activityRepo,
	}
	projectSvc := &app.ProjectService{
		Repo:        projectRepo,
		Users:       userRepo,
		Engagements: engagementRepo,
		Cascade:     engine,
		GCS:         container.GetGCS(),
		GCSBucket:   cfg.GCSBucket,
		Logger:      logger,
		Indexer:     indexer,
	}
	digestSvc := &app.DigestService{
		Repo:   digestRepo,
		Users:  userRepo,
		Guard:  cascade.NewRetentionGuard(store),
		Logger: logger,
		Pub:    container.GetRabbitPub(),
	}

	userHandler := handlers.NewUserHandler(userSvc, container.GetJWT(), logger, cfg.CookieDomain, cfg.CookieSecure)
	projectHandler := handlers.NewProjectHandler(projectSvc, logger)
	digestHandler := handlers.NewDigestHandler(digestSvc, logger)
	weatherHandler := handlers.NewWeatherHandler(weather.OpenMeteoResolver{}, container.GetRedis(), cfg.WeatherCacheTTL, logger)

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewProjectModule(projectHandler, container.GetJWT()))
	r.Add(modules.NewDigestModule(digestHandler, container.GetJWT()))
	r.Add(modules.NewWeatherModule(weatherHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
