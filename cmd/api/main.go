package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/invoice-gst-engine/internal/application/billing"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/repository"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/tax"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/escpos"
	infrapdf "github.com/jhoicas/invoice-gst-engine/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/printer"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/sequence"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/invoice-gst-engine/internal/interfaces/http"
	"github.com/jhoicas/invoice-gst-engine/pkg/config"
	"github.com/jhoicas/invoice-gst-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// PostgreSQL es opcional: sin base no hay ledger, ni configuración de clientes,
	// ni servicio de consecutivos propio.
	var (
		clientRepo   repository.ClientConfigRepository
		ledgerRepo   repository.InvoiceLedgerRepository
		sequenceRepo *postgres.SequenceRepo
	)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones PostgreSQL")
		}
		clientRepo = postgres.NewClientConfigRepository(pool)
		ledgerRepo = postgres.NewInvoiceLedgerRepository(pool)
		sequenceRepo = postgres.NewSequenceRepository(pool)
	} else {
		log.Warn().Msg("sin base de datos: se omiten ledger, /api/clients y /api/invoice-sequences")
	}

	// Nivel remoto: servicio HTTP externo si está configurado; si no, la tabla de
	// consecutivos de PostgreSQL; si tampoco, se arranca directo en el contador local.
	var remote billing.SequenceAllocator
	switch {
	case cfg.Sequence.URL != "":
		remote = sequence.NewClient(cfg.Sequence.URL, cfg.Sequence.Timeout)
		log.Info().Str("url", cfg.Sequence.URL).Msg("consecutivos: servicio remoto")
	case sequenceRepo != nil:
		remote = sequenceRepo
		log.Info().Msg("consecutivos: PostgreSQL")
	default:
		log.Warn().Msg("consecutivos: sin nivel remoto, se usa el contador local")
	}

	counters, err := sqlite.Open(ctx, cfg.Counter.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Counter.Path).Msg("contador local")
	}
	defer counters.Close()

	allocator := billing.NewNumberAllocator(remote, counters)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(tax.NewEngine(), allocator, ledgerRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	invoicePDFUC := billing.NewPDFUseCase(pdfGenerator)

	printers := printer.NewRegistry()
	defer printers.Close()
	printUC := billing.NewPrintUseCase(
		escpos.NewReceiptRenderer(cfg.Invoice.Location()),
		printers,
		billing.PrintConfig{ChunkSize: cfg.Printer.ChunkSize, ChunkDelay: cfg.Printer.ChunkDelay},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GST Invoice API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	deps := httpRouter.RouterDeps{
		CreateInvoice: createInvoiceUC,
		Allocator:     allocator,
		InvoicePDF:    invoicePDFUC,
		PrintReceipt:  printUC,
		Printers:      printers,
		Clients:       clientRepo,
		DefaultPrefix: cfg.Invoice.DefaultPrefix,
	}
	if sequenceRepo != nil {
		deps.Sequences = sequenceRepo
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
