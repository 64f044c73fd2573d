package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-gst-engine/internal/application/billing"
	"github.com/jhoicas/invoice-gst-engine/internal/application/dto"
	"github.com/jhoicas/invoice-gst-engine/internal/domain"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/repository"
)

// InvoiceHandler maneja el cálculo, la numeración y los renders de facturas.
type InvoiceHandler struct {
	invoices      *billing.CreateInvoiceUseCase
	allocator     *billing.NumberAllocator
	pdf           *billing.PDFUseCase
	receipts      *billing.PrintUseCase
	clients       repository.ClientConfigRepository
	defaultPrefix string
}

// NewInvoiceHandler construye el handler. clients puede ser nil (solo config inline).
func NewInvoiceHandler(
	invoices *billing.CreateInvoiceUseCase,
	allocator *billing.NumberAllocator,
	pdf *billing.PDFUseCase,
	receipts *billing.PrintUseCase,
	clients repository.ClientConfigRepository,
	defaultPrefix string,
) *InvoiceHandler {
	if defaultPrefix == "" {
		defaultPrefix = billing.DefaultPrefix
	}
	return &InvoiceHandler{
		invoices:      invoices,
		allocator:     allocator,
		pdf:           pdf,
		receipts:      receipts,
		clients:       clients,
		defaultPrefix: defaultPrefix,
	}
}

// Compute godoc
// @Summary      Calcular factura (sin registrar ni asignar número)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "Factura"
// @Success      200   {object}  dto.Result
// @Failure      400   {object}  dto.Result
// @Router       /api/invoices/compute [post]
func (h *InvoiceHandler) Compute(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.compute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(inv))
}

// Create godoc
// @Summary      Emitir factura (asigna número y la registra)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.Result
// @Failure      409   {object}  dto.Result
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	req, err := h.request(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	inv, err := h.invoices.Issue(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(inv))
}

// Number godoc
// @Summary      Asignar número de factura
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NumberRequest  true  "Prefijo y fecha"
// @Success      200   {object}  dto.Result
// @Router       /api/invoices/number [post]
func (h *InvoiceHandler) Number(c *fiber.Ctx) error {
	var in dto.NumberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return writeError(c, err)
	}
	if date.IsZero() {
		date = time.Now()
	}
	prefix := strings.TrimSpace(in.Prefix)
	if prefix == "" {
		prefix = h.defaultPrefix
	}
	alloc := h.allocator.AllocateDetailed(c.UserContext(), prefix, date.Format("2006-01-02"))
	return c.JSON(dto.OK(dto.NumberResponse{
		InvoiceNumber: alloc.Number.String(),
		Sequence:      alloc.Number.Sequence,
		Tier:          alloc.Tier,
	}))
}

// PDF godoc
// @Summary      Generar PDF de la factura
// @Description  Por defecto devuelve JSON con el PDF en base64; con ?download=true devuelve el binario.
// @Tags         invoices
// @Accept       json
// @Produce      json,application/pdf
// @Param        body      body   dto.InvoiceRequest  true   "Factura"
// @Param        download  query  bool                false  "Descargar binario"
// @Success      200   {object}  dto.Result
// @Router       /api/invoices/pdf [post]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.numbered(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.pdf.Render(c.UserContext(), inv)
	if err != nil {
		return writeError(c, err)
	}
	if c.QueryBool("download") {
		c.Set(fiber.HeaderContentType, doc.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.FileName))
		return c.Send(doc.Content)
	}
	return c.JSON(dto.OK(doc))
}

// Print godoc
// @Summary      Imprimir recibo en impresora térmica
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PrintRequest  true  "Factura + device_id"
// @Success      200   {object}  dto.Result
// @Failure      409   {object}  dto.Result
// @Failure      502   {object}  dto.Result
// @Router       /api/invoices/print [post]
func (h *InvoiceHandler) Print(c *fiber.Ctx) error {
	var in dto.PrintRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.DeviceID) == "" {
		return writeError(c, fmt.Errorf("%w: device_id es requerido", domain.ErrInvalidInput))
	}
	inv, err := h.numbered(c.UserContext(), in.InvoiceRequest)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.receipts.Print(c.UserContext(), inv, in.DeviceID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(dto.PrintResponse{InvoiceNumber: inv.Number, DeviceID: in.DeviceID}))
}

// compute calcula sin tocar los consecutivos; solo Create y Number asignan.
func (h *InvoiceHandler) compute(ctx context.Context, in dto.InvoiceRequest) (*entity.Invoice, error) {
	req, err := h.request(ctx, in)
	if err != nil {
		return nil, err
	}
	return h.invoices.Compute(ctx, req)
}

// numbered exige invoice_number antes de calcular y renderizar.
func (h *InvoiceHandler) numbered(ctx context.Context, in dto.InvoiceRequest) (*entity.Invoice, error) {
	if strings.TrimSpace(in.InvoiceNumber) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrMissingInvoiceNumber)
	}
	return h.compute(ctx, in)
}

// request resuelve la configuración del cliente una sola vez y arma la solicitud.
func (h *InvoiceHandler) request(ctx context.Context, in dto.InvoiceRequest) (billing.CreateInvoiceRequest, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return billing.CreateInvoiceRequest{}, err
	}

	var client entity.ClientConfig
	switch {
	case in.Client != nil:
		client = *in.Client
	case in.ClientID != "" && h.clients != nil:
		cfg, err := h.clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return billing.CreateInvoiceRequest{}, err
		}
		if cfg == nil {
			return billing.CreateInvoiceRequest{}, fmt.Errorf("%w: configuración del cliente %s", domain.ErrNotFound, in.ClientID)
		}
		client = *cfg
	}
	if client.ID == "" {
		client.ID = in.ClientID
	}
	if strings.TrimSpace(client.InvPrefix) == "" {
		client.InvPrefix = h.defaultPrefix
	}

	return billing.CreateInvoiceRequest{
		InvoiceNumber: in.InvoiceNumber,
		Date:          date,
		Items:         in.Items,
		Client:        client,
		Customer:      in.Customer,
		Payment:       in.Payment,
		CreatedAt:     in.CreatedAt,
	}, nil
}

// parseDate "" => cero (el caso de uso usa la fecha actual).
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q no es YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}
