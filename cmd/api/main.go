package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shopify/sarama"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/openwifimap/backend-api-go/broker"
	"github.com/openwifimap/backend-api-go/handler"
	"github.com/openwifimap/backend-api-go/middleware/auth"
	"github.com/openwifimap/backend-api-go/middleware/cache"
	log "github.com/openwifimap/backend-api-go/pkg/logger"
	"github.com/openwifimap/backend-api-go/repository"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Application struct {
	app           *fiber.App
	repo          *repository.Repository
	kafkaProducer sarama.SyncProducer
}

func (a *Application) Register() {
	a.app.Get("/healthcheck", handler.HealthCheck)
	a.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	a.app.Get("/monitor", monitor.New())
	a.app.Get("/api/hotspots", handler.GetHotspotsHandler(a.repo))
	a.app.Post("/api/hotspots", handler.CreateHotspotHandler(a.repo, a.kafkaProducer))
	a.app.Get("/api/categories", handler.GetCategoriesHandler())
	a.app.Get("/caches/prune", handler.InvalidateCache())
}

func main() {
	repo := repository.New()
	defer repo.Close()

	kafkaProducer, err := broker.NewProducer()
	if err != nil {
		log.Logger().Error("failed to init kafka producer", zap.Error(err))
	}

	app := fiber.New()
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New())
	app.Use(recover.New())
	app.Use(auth.New())
	app.Use(pprof.New())
	app.Use(cache.New())

	application := &Application{app: app, repo: repo, kafkaProducer: kafkaProducer}
	application.Register()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT)
	signal.Notify(c, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("application gracefully shutting down..")
		_ = app.Shutdown()
	}()

	if err := app.Listen(":80"); err != nil {
		panic(fmt.Sprintf("app error: %s", err.Error()))
	}
}
