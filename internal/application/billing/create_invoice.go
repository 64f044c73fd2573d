package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-gst-engine/internal/domain"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/repository"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/tax"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/words"
)

// DefaultPrefix prefijo si la configuración del cliente no trae inv_prefix.
const DefaultPrefix = "INV"

// CreateInvoiceRequest datos que arma el llamador antes de calcular.
// InvoiceNumber vacío => Compose e Issue lo asignan con el NumberAllocator; Compute lo deja vacío.
type CreateInvoiceRequest struct {
	InvoiceNumber string
	Date          time.Time
	Items         []entity.LineItem
	Client        entity.ClientConfig
	Customer      entity.Customer
	Payment       *entity.PaymentBreakdown
	CreatedAt     any
}

// CreateInvoiceUseCase compone la factura: valida → asigna número → calcula GST → monto en letras.
// El ledger es opcional: si está, Issue registra la factura emitida.
type CreateInvoiceUseCase struct {
	taxEngine *tax.Engine
	allocator *NumberAllocator
	ledger    repository.InvoiceLedgerRepository
	now       func() time.Time
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	taxEngine *tax.Engine,
	allocator *NumberAllocator,
	ledger repository.InvoiceLedgerRepository,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		taxEngine: taxEngine,
		allocator: allocator,
		ledger:    ledger,
		now:       time.Now,
	}
}

// Compute calcula la factura tal como llega: no asigna número ni consume consecutivos.
// El número puede venir vacío; los renders lo exigen después con ValidateInvoice.
func (uc *CreateInvoiceUseCase) Compute(ctx context.Context, in CreateInvoiceRequest) (*entity.Invoice, error) {
	inv, _, err := uc.compose(ctx, in, false)
	return inv, err
}

// Compose calcula la factura sin registrarla. Si no trae número y hay asignador, lo asigna.
func (uc *CreateInvoiceUseCase) Compose(ctx context.Context, in CreateInvoiceRequest) (*entity.Invoice, error) {
	inv, _, err := uc.compose(ctx, in, true)
	return inv, err
}

// Issue compone la factura, asigna número si falta y la registra en el ledger.
func (uc *CreateInvoiceUseCase) Issue(ctx context.Context, in CreateInvoiceRequest) (*entity.Invoice, error) {
	inv, alloc, err := uc.compose(ctx, in, true)
	if err != nil {
		return nil, err
	}
	if uc.ledger == nil {
		return inv, nil
	}

	existing, err := uc.ledger.GetByNumber(ctx, inv.Number)
	if err != nil {
		return nil, fmt.Errorf("ledger: consultar factura: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la factura %s ya fue emitida", domain.ErrConflict, inv.Number)
	}

	record := &entity.IssuedInvoice{
		ID:            uuid.New().String(),
		ClientID:      inv.Client.ID,
		InvoiceNumber: inv.Number,
		Prefix:        alloc.Number.Prefix,
		InvoiceDate:   alloc.Number.Date,
		Sequence:      alloc.Number.Sequence,
		AllocatedBy:   alloc.Tier,
		GSTMethod:     inv.GSTMethod,
		TaxableValue:  inv.Totals.TaxableValue,
		GSTAmount:     inv.Totals.GSTAmount,
		CGST:          inv.Totals.CGST,
		SGST:          inv.Totals.SGST,
		GrandTotal:    inv.Totals.GrandTotal,
		CreatedAt:     uc.now(),
	}
	if err := uc.ledger.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("ledger: registrar factura: %w", err)
	}
	return inv, nil
}

func (uc *CreateInvoiceUseCase) compose(ctx context.Context, in CreateInvoiceRequest, allocate bool) (*entity.Invoice, Allocation, error) {
	if len(in.Items) == 0 {
		return nil, Allocation{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrNoLineItems)
	}
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, Allocation{}, fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i+1, it.Quantity)
		}
	}

	date := in.Date
	if date.IsZero() {
		date = uc.now()
	}

	number := strings.TrimSpace(in.InvoiceNumber)
	alloc := Allocation{
		Tier:   TierProvided,
		Number: entity.InvoiceNumber{Prefix: in.Client.InvPrefix, Date: date.Format("2006-01-02")},
	}
	if number == "" && allocate {
		if uc.allocator == nil {
			return nil, Allocation{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrMissingInvoiceNumber)
		}
		prefix := strings.TrimSpace(in.Client.InvPrefix)
		if prefix == "" {
			prefix = DefaultPrefix
		}
		alloc = uc.allocator.AllocateDetailed(ctx, prefix, date.Format("2006-01-02"))
		number = alloc.Number.String()
	}

	method := in.Client.GSTMethod
	lines, totals := uc.taxEngine.Compute(in.Items, method)

	inv := &entity.Invoice{
		Number:        number,
		Date:          date,
		GSTMethod:     method,
		Items:         in.Items,
		Lines:         lines,
		Totals:        totals,
		AmountInWords: words.ToWords(totals.GrandTotal),
		Client:        in.Client,
		Customer:      in.Customer,
		Payment:       in.Payment,
		CreatedAt:     in.CreatedAt,
	}
	return inv, alloc, nil
}

// ValidateInvoice rechaza facturas mal formadas antes de cualquier render.
func ValidateInvoice(inv *entity.Invoice) error {
	if inv == nil {
		return fmt.Errorf("%w: factura nula", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(inv.Number) == "" {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrMissingInvoiceNumber)
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrNoLineItems)
	}
	if len(inv.Lines) != len(inv.Items) {
		return fmt.Errorf("%w: %d líneas calculadas para %d ítems", domain.ErrInvalidInput, len(inv.Lines), len(inv.Items))
	}
	return nil
}
