// @title        POS API
// @version      1.0
// @description  API del punto de venta multi-tienda: catálogo, inventario, caja, facturación y reportes.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/pos-api/docs"
	"github.com/jhoicas/pos-api/internal/app"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/realtime"
	infrapdf "github.com/jhoicas/pos-api/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/pos-api/internal/infrastructure/redis"
	"github.com/jhoicas/pos-api/internal/infrastructure/worker"
	httpRouter "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	backend, closeBackend, err := app.OpenBackend(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer closeBackend()

	// Sin REDIS_ADDR los eventos solo llegan a los clientes de esta instancia.
	var broker realtime.Broker
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		redisBroker := infraredis.NewBroker(client, log.Component("realtime"))
		defer redisBroker.Close()
		broker = redisBroker
	}

	documents := infrapdf.NewMarotoPDFGenerator()
	devices := app.NewHardware(cfg.Hardware, documents, log.Component("hardware"))

	svc := app.NewServices(backend, app.Options{
		JWT: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		Broker:    broker,
		Hardware:  devices,
		Documents: documents,
		Log:       log.Zerolog(),
	})

	if cfg.Storage.Driver == config.StorageMemory && cfg.Storage.Seed {
		res, err := svc.Seed(ctx, backend)
		if err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
		log.Info().Str("company_id", res.CompanyID).Int("products", res.Products).Msg("datos de demostración cargados")
	}

	scheduler := worker.NewScheduler(log.Component("worker"))
	scheduler.Register(worker.InvoiceSyncJob(svc.Invoices, cfg.Workers.SyncInterval, log.Component("invoice-sync")))
	scheduler.Register(worker.AutoReorderJob(svc.Purchasing, cfg.Workers.ReorderInterval, log.Component("auto-reorder")))
	scheduler.Start(ctx)

	limiter := httpRouter.NewRateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	server := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		server.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "POS API",
		}))
	}

	server.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "jobs": scheduler.Jobs()})
	})

	httpRouter.Router(server, svc.RouterDeps(cfg.JWT.Secret, limiter))

	go func() {
		if err := server.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()
	scheduler.Wait()

	log.Info().Msg("aplicación detenida")
}
