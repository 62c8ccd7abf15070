package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	"github.com/BruksfildServices01/smart-spa/internal/config"
	dbpkg "github.com/BruksfildServices01/smart-spa/internal/db"
	"github.com/BruksfildServices01/smart-spa/internal/events"
	"github.com/BruksfildServices01/smart-spa/internal/infra/cache"
	"github.com/BruksfildServices01/smart-spa/internal/infra/rabbitmq"
	"github.com/BruksfildServices01/smart-spa/internal/routes"
	"github.com/BruksfildServices01/smart-spa/internal/timezone"
)

func main() {

	cfg := config.Load()
	timezone.SetDefault(cfg.DefaultTimezone)

	db := dbpkg.NewDB(cfg)

	infra := routes.Infra{
		Audit:     audit.NewDispatcher(audit.New(db)),
		Publisher: events.Noop{},
	}
	defer infra.Audit.Close()

	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		availabilityCache, err := cache.NewAvailabilityCache(ctx, cfg.RedisURL, cfg.AvailabilityCacheTTL)
		cancel()
		if err != nil {
			log.Printf("[Cache] disabled: %v", err)
		} else {
			defer availabilityCache.Close()
			infra.Cache = availabilityCache
		}
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("[RabbitMQ] disabled: %v", err)
		} else {
			defer publisher.Close()
			infra.Publisher = publisher
		}
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := routes.RegisterRoutes(r, db, cfg, infra); err != nil {
		log.Fatalf("failed to register routes: %v", err)
	}

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
