package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-gst-engine/internal/application/billing"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/repository"
)

// RouterDeps dependencias para el router. Clients y Sequences son opcionales
// (sin base de datos esas rutas no se registran).
type RouterDeps struct {
	CreateInvoice *billing.CreateInvoiceUseCase
	Allocator     *billing.NumberAllocator
	InvoicePDF    *billing.PDFUseCase
	PrintReceipt  *billing.PrintUseCase
	Printers      PrinterRegistry
	Clients       repository.ClientConfigRepository
	Sequences     repository.SequenceRepository
	DefaultPrefix string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(
		deps.CreateInvoice, deps.Allocator, deps.InvoicePDF, deps.PrintReceipt,
		deps.Clients, deps.DefaultPrefix,
	)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Post("/compute", invoiceHandler.Compute)
	invoices.Post("/number", invoiceHandler.Number)
	invoices.Post("/pdf", invoiceHandler.PDF)
	invoices.Post("/print", invoiceHandler.Print)

	// Printers
	printers := api.Group("/printers")
	printerHandler := NewPrinterHandler(deps.Printers)
	printers.Get("/", printerHandler.List)
	printers.Post("/connect", printerHandler.Connect)
	printers.Delete("/:id", printerHandler.Disconnect)

	// Client config
	if deps.Clients != nil {
		clientHandler := NewClientHandler(deps.Clients)
		api.Get("/clients/:id/config", clientHandler.GetConfig)
		api.Put("/clients/:id/config", clientHandler.PutConfig)
	}

	// Sequence service
	if deps.Sequences != nil {
		sequenceHandler := NewSequenceHandler(deps.Sequences)
		api.Post("/invoice-sequences/next", sequenceHandler.Next)
	}
}
