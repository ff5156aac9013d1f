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
	appbilling "github.com/tu-usuario/dental-pro/internal/application/billing"
	infraaccounting "github.com/tu-usuario/dental-pro/internal/infrastructure/accounting"
	infrapdf "github.com/tu-usuario/dental-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/dental-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/dental-pro/internal/interfaces/http"
	"github.com/tu-usuario/dental-pro/pkg/config"
	"github.com/tu-usuario/dental-pro/pkg/logger"
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

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	treatmentRepo := postgres.NewTreatmentRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	invoiceUC := appbilling.NewInvoiceUseCase(invoiceRepo, patientRepo, userRepo, treatmentRepo)
	treatmentUC := appbilling.NewTreatmentUseCase(treatmentRepo)

	// Exportación: PDF imprimible + XML de intercambio contable
	renderer := infrapdf.NewMarotoRenderer()
	accountingExporter := infraaccounting.NewXMLExporter()
	exportUC := appbilling.NewExportUseCase(
		invoiceRepo, patientRepo, userRepo,
		renderer, accountingExporter,
		appbilling.ClinicInfo{
			Name:    cfg.Clinic.Name,
			Address: cfg.Clinic.Address,
			Phone:   cfg.Clinic.Phone,
			Email:   cfg.Clinic.Email,
			TaxID:   cfg.Clinic.TaxID,
		},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Dental Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC:   invoiceUC,
		ExportUC:    exportUC,
		TreatmentUC: treatmentUC,
		JWTSecret:   cfg.JWT.Secret,
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
