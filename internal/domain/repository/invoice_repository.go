package repository

import (
	"context"

	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
)

// InvoiceLedgerRepository registra las facturas emitidas (número + totales).
type InvoiceLedgerRepository interface {
	Create(ctx context.Context, inv *entity.IssuedInvoice) error
	// GetByNumber devuelve nil, nil si no existe.
	GetByNumber(ctx context.Context, invoiceNumber string) (*entity.IssuedInvoice, error)
}
