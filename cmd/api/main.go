package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/erp-fulfillment/internal/application/auth"
	"github.com/jhoicas/erp-fulfillment/internal/application/fulfillment"
	"github.com/jhoicas/erp-fulfillment/internal/infrastructure/events"
	"github.com/jhoicas/erp-fulfillment/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/erp-fulfillment/internal/infrastructure/pdf"
	"github.com/jhoicas/erp-fulfillment/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/erp-fulfillment/internal/interfaces/http"
	"github.com/jhoicas/erp-fulfillment/pkg/config"
	"github.com/jhoicas/erp-fulfillment/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.Fulfillment.Location)
	if err != nil {
		log.Fatal().Err(err).Str("location", cfg.Fulfillment.Location).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		migrator, err := postgres.NewMigrator(pool, log.Component("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("migrador")
		}
		if err := migrator.Up(ctx); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		_ = migrator.Close()
	}

	txRunner, err := postgres.NewTxRunner(pool, cfg.DB.TxIsolation)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de transacciones")
	}

	// Eventos: Kafka si está habilitado, si no noop
	var publisher interface {
		fulfillment.EventPublisher
		Close() error
	} = events.NoopPublisher{}
	if cfg.Events.Enabled {
		kp, err := events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic, log.Component("kafka"))
		if err != nil {
			log.Fatal().Err(err).Msg("publicador de eventos")
		}
		publisher = kp
		log.Info().Strs("brokers", cfg.Events.Brokers).Str("topic", cfg.Events.Topic).Msg("eventos habilitados")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar publicador de eventos")
		}
	}()

	var (
		statusMetrics fulfillment.Metrics
		prom          *metrics.Prometheus
	)
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheus()
		statusMetrics = prom
	}

	statusUC := fulfillment.NewOrderStatusUseCase(txRunner, publisher, statusMetrics, log.Component("fulfillment"),
		fulfillment.Options{Location: loc})
	queryUC := fulfillment.NewOrderQueryUseCase(
		postgres.NewOrderRepository(pool),
		postgres.NewStockMovementRepository(pool),
		postgres.NewTransactionRepository(pool),
		infrapdf.NewPackingSlipGenerator(cfg.Fulfillment.CompanyName),
	)
	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Order Fulfillment API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	deps := httpRouter.RouterDeps{
		OrderStatus: statusUC,
		OrderQuery:  queryUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		MetricsPath: cfg.Metrics.Path,
	}
	if prom != nil {
		deps.MetricsHandler = prom.Handler()
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
