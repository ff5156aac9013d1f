package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/dental-pro/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC   *billing.InvoiceUseCase
	ExportUC    *billing.ExportUseCase
	TreatmentUC *billing.TreatmentUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas las rutas de facturación exigen
// Bearer Token; la eliminación de facturas queda reservada a administración.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de tratamientos (protegido, solo lectura)
	treatments := protected.Group("/treatments")
	treatmentHandler := NewTreatmentHandler(deps.TreatmentUC)
	treatments.Get("/", treatmentHandler.List)
	treatments.Get("/:id", treatmentHandler.GetByID)

	// Facturas (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.ExportUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", RequireRole(RoleAdmin), invoiceHandler.Delete)
	invoices.Put("/:id/status", RequireRole(RoleAdmin, RoleRecepcion), invoiceHandler.SetStatus)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Get("/:id/xml", invoiceHandler.DownloadXML)
}
