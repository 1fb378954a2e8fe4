package main

import (
	"fmt"
	"os"
	"time"

	"md-shaving/internal/api/handlers"
	"md-shaving/internal/api/middleware"
	"md-shaving/internal/cache"
	"md-shaving/internal/data"
	"md-shaving/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	curve := loadCurve(log)
	db := data.OpenBatteryDatabase(data.GetDefaultDatabasePath())
	results := buildResultCache(log)

	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Recovery(log))

	analysisHandler := handlers.NewAnalysisHandler(curve, db, results, log)
	batteryHandler := handlers.NewBatteryHandler(db)
	curveHandler := handlers.NewCurveHandler(curve)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/analyze", analysisHandler.Analyze)
		api.GET("/analysis/:id/ledger", analysisHandler.GetLedger)

		api.GET("/batteries", batteryHandler.ListBatteries)
		api.GET("/curve", curveHandler.GetCurve)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func loadCurve(log zerolog.Logger) *model.DegradationCurve {
	if path := os.Getenv("DEGRADATION_FILE"); path != "" {
		curve, err := data.LoadCurveJSON(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("failed to load degradation curve")
		}
		log.Info().Str("path", path).Msg("loaded degradation curve")
		return curve
	}
	return data.WeihengTianwuCurve()
}

func buildResultCache(log zerolog.Logger) cache.Repository {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Info().Msg("using in-memory result cache")
		return cache.NewMemoryCache()
	}
	ttl := 24 * time.Hour
	if raw := os.Getenv("RESULT_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			ttl = parsed
		}
	}
	log.Info().Str("addr", addr).Dur("ttl", ttl).Msg("using redis result cache")
	return cache.NewRedisCache(addr, ttl)
}
