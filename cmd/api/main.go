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
	"github.com/jhoicas/CafeStock-api/internal/application/confirmation"
	"github.com/jhoicas/CafeStock-api/internal/application/inventory"
	"github.com/jhoicas/CafeStock-api/internal/application/transfer"
	"github.com/jhoicas/CafeStock-api/internal/application/usecase"
	"github.com/jhoicas/CafeStock-api/internal/infrastructure/evidence"
	"github.com/jhoicas/CafeStock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/CafeStock-api/internal/interfaces/http"
	"github.com/jhoicas/CafeStock-api/pkg/config"
	"github.com/jhoicas/CafeStock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	locationRepo := postgres.NewLocationRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	recordRepo := postgres.NewInventoryRecordRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	requestRepo := postgres.NewTransferRequestRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	slaWindow := time.Duration(cfg.Transfer.DeliverySLAMinutes) * time.Minute
	createTransferUC := transfer.NewCreateTransferUseCase(
		txRunner, locationRepo, productRepo, movementRepo, requestRepo, slaWindow,
	)
	confirmationUC := confirmation.NewConfirmationUseCase(txRunner, movementRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, recordRepo, movementRepo, locationRepo, productRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	productUC := usecase.NewProductUseCase(productRepo)

	// Almacén de evidencias (opcional): sin endpoint configurado, los
	// endpoints de evidencia no se montan y evidence_ref se acepta tal cual.
	var evidenceStore evidence.Store
	if cfg.Evidence.Endpoint != "" {
		evidenceStore, err = evidence.NewMinioStore(
			ctx,
			cfg.Evidence.Endpoint,
			cfg.Evidence.AccessKey,
			cfg.Evidence.SecretKey,
			cfg.Evidence.Bucket,
			cfg.Evidence.UseSSL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión al almacén de evidencias")
		}
		log.Info().Str("bucket", cfg.Evidence.Bucket).Msg("almacén de evidencias listo")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CafeStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateTransfer: createTransferUC,
		ConfirmationUC: confirmationUC,
		LedgerUC:       ledgerUC,
		LocationUC:     locationUC,
		ProductUC:      productUC,
		EvidenceStore:  evidenceStore,
		JWTSecret:      cfg.JWT.Secret,
	})

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
