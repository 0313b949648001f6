package di

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"nightlife-server/api"
	"nightlife-server/api/records"
	"nightlife-server/config"
	"nightlife-server/dao/redis"
	"nightlife-server/db"
	"nightlife-server/engine"
	"nightlife-server/server"
	"nightlife-server/server/handlers"
	services "nightlife-server/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                  *config.Config
	RedisClient             db.RedisClient
	RedisRecordDao          *redis.RedisRecordDAO
	RecordsAPI              records.RecordsAPI
	Engine                  *engine.Engine
	CatalogService          *services.CatalogService
	RecordsRefresherService *services.RecordsRefresherService
	VenueHandler            *handlers.VenueHandler
	CardHandler             *handlers.CardHandler
	StatusHandler           *handlers.StatusHandler
	MuxRouter               *mux.Router
	Router                  *server.Router
	NightlifeHttpServer     *server.NightlifeHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Printf("[Container] Initializing container - env: %s", cfg.Env)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var redisClient db.RedisClient
	if cfg.Redis.UseMock {
		log.Println("[Container] Using in-memory redis")
		redisClient = db.NewMockRedisClient()
	} else {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		geoClient, err := db.NewGeoRedisClient(ctx, redisInternalClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		redisClient = geoClient
	}

	redisRecordDao := redis.NewRedisRecordDAO(redisClient)

	var recordsAPI records.RecordsAPI
	if cfg.RecordsAPI.UseMock {
		log.Printf("[Container] Using mock records api (fixtures in %s)", cfg.ResourcesDir)
		recordsAPI = records.NewRecordsApiClientMock(cfg.ResourcesDir)
	} else {
		log.Printf("[Container] Using records api at %s", cfg.RecordsAPI.BaseURL)
		recordsAPI = records.NewRecordsApiClient(api.NewHTTPClient(cfg.RecordsAPI.BaseURL), cfg.RecordsAPI.APIKey)
	}

	eng := engine.New(loc)
	catalogService := services.NewCatalogService(redisRecordDao, eng)
	refresher := services.NewRecordsRefresherService(
		redisRecordDao, recordsAPI, cfg.Refresh.MaxRetries, cfg.RetryWait())

	now := func() time.Time { return time.Now().In(loc) }
	venueHandler := handlers.NewVenueHandler(catalogService, now)
	cardHandler := handlers.NewCardHandler(catalogService, now)
	statusHandler := handlers.NewStatusHandler(catalogService)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(venueHandler, cardHandler, statusHandler, muxRouter)
	httpServer := server.NewNightlifeHttpServer(router, muxRouter, cfg.Listen)

	return &Container{
		Config:                  cfg,
		RedisClient:             redisClient,
		RedisRecordDao:          redisRecordDao,
		RecordsAPI:              recordsAPI,
		Engine:                  eng,
		CatalogService:          catalogService,
		RecordsRefresherService: refresher,
		VenueHandler:            venueHandler,
		CardHandler:             cardHandler,
		StatusHandler:           statusHandler,
		MuxRouter:               muxRouter,
		Router:                  router,
		NightlifeHttpServer:     httpServer,
	}, nil
}
