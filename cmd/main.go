package main

import (
	"context"
	"log"
	"net/http"
	"os"

	redisAdapter "github.com/housemarket/browse-service/internal/adapter/cache/redis"
	"github.com/housemarket/browse-service/internal/adapter/geocode"
	mongoAdapter "github.com/housemarket/browse-service/internal/adapter/mongo"
	"github.com/housemarket/browse-service/internal/config"
	"github.com/housemarket/browse-service/internal/port/httpapi"
	"github.com/housemarket/browse-service/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	configPath := "config.yaml"
	if cp := os.Getenv("CONFIG_PATH"); cp != "" {
		configPath = cp
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapConfig := zap.NewProductionConfig()
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("http_port", cfg.HTTP.Port),
		zap.String("mongo_uri", cfg.Mongo.URI),
		zap.String("mongo_database", cfg.Mongo.Database),
	)

	mongoClient, err := mongoAdapter.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err = mongoClient.Disconnect(context.TODO()); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	logger.Info("Successfully connected to MongoDB")

	redisClient, err := redisAdapter.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	listingRepo := mongoAdapter.NewListingMongoRepository(mongoClient, cfg.Mongo.Database)
	kvStore := redisAdapter.NewRedisStore(redisClient, logger)
	geocoder := geocode.NewNominatimClient(&cfg.Geocoder)

	listingUC := usecase.NewListingUseCase(listingRepo, logger)
	homeUC := usecase.NewHomeUseCase(listingRepo, logger)
	suggestUC := usecase.NewSuggestUseCase(geocoder, logger)
	favoritesUC := usecase.NewFavoritesUseCase(kvStore, logger)
	recentlyViewedUC := usecase.NewRecentlyViewedUseCase(kvStore, logger)

	handler := httpapi.NewHandler(listingUC, homeUC, suggestUC, favoritesUC, recentlyViewedUC, listingRepo, logger)
	router := httpapi.NewRouter(handler, cfg.Auth.JWTSecret, logger)

	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	logger.Info("Starting HTTP server", zap.String("address", server.Addr))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
