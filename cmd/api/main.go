package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/foodcost-pro/internal/application/costing"
	"github.com/tu-usuario/foodcost-pro/internal/application/counting"
	"github.com/tu-usuario/foodcost-pro/internal/application/reconciliation"
	"github.com/tu-usuario/foodcost-pro/internal/application/reporting"
	"github.com/tu-usuario/foodcost-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/foodcost-pro/internal/interfaces/http"
	"github.com/tu-usuario/foodcost-pro/pkg/config"
	"github.com/tu-usuario/foodcost-pro/pkg/logger"
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

	countRepo := postgres.NewCountRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	adjustmentRepo := postgres.NewAdjustmentRepository(pool)
	salesRepo := postgres.NewSalesRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	conversionRepo := postgres.NewConversionRepository(pool)
	quoteRepo := postgres.NewPriceQuoteRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	engineCfg := reconciliation.DefaultConfig()
	engineCfg.DefaultLookbackDays = cfg.Recon.DefaultLookbackDays
	engineCfg.SummaryWorkers = cfg.Recon.SummaryWorkers
	engine := reconciliation.NewEngine(
		countRepo, purchaseRepo, adjustmentRepo,
		salesRepo, catalogRepo, conversionRepo,
		log.Component("conciliacion"), engineCfg,
	)

	costUC := costing.NewCostUseCase(catalogRepo, quoteRepo, conversionRepo)
	marginUC := reporting.NewMarginUseCase(salesRepo, catalogRepo, costUC, log.Component("reportes"))
	countUC := counting.NewCountUseCase(
		countRepo, adjustmentRepo, catalogRepo, conversionRepo, txRunner, log.Component("inventario"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:   engine,
		CostUC:   costUC,
		MarginUC: marginUC,
		CountUC:  countUC,
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
