package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/invoice-gst-engine/internal/domain"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/repository"
)

var _ repository.InvoiceLedgerRepository = (*InvoiceLedgerRepo)(nil)

// InvoiceLedgerRepo registro de facturas emitidas.
type InvoiceLedgerRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewInvoiceLedgerRepository construye el adaptador.
func NewInvoiceLedgerRepository(pool *pgxpool.Pool) *InvoiceLedgerRepo {
	return &InvoiceLedgerRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Create inserta la factura y, si el número no vino del consecutivo del
// servidor, sube invoice_sequences para que no se vuelva a asignar. Todo en una tx.
func (r *InvoiceLedgerRepo) Create(ctx context.Context, inv *entity.IssuedInvoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	return r.tx.Run(ctx, func(q Querier) error {
		query := `
			INSERT INTO issued_invoices (id, client_id, invoice_number, prefix, invoice_date, sequence, allocated_by,
				gst_method, taxable_value, gst_amount, cgst, sgst, grand_total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
		_, err := q.Exec(ctx, query,
			inv.ID, nullIfEmpty(inv.ClientID), inv.InvoiceNumber, inv.Prefix, inv.InvoiceDate, inv.Sequence, inv.AllocatedBy,
			inv.GSTMethod.String(), inv.TaxableValue, inv.GSTAmount, inv.CGST, inv.SGST, inv.GrandTotal, inv.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: la factura %s ya existe", domain.ErrConflict, inv.InvoiceNumber)
			}
			return fmt.Errorf("insert issued invoice: %w", err)
		}

		if inv.AllocatedBy == "remote" || inv.Sequence < 1 || inv.Prefix == "" {
			return nil
		}
		return NewSequenceRepository(q).Bump(ctx, inv.Prefix, inv.InvoiceDate, inv.Sequence)
	})
}

// GetByNumber devuelve nil, nil si no existe.
func (r *InvoiceLedgerRepo) GetByNumber(ctx context.Context, number string) (*entity.IssuedInvoice, error) {
	query := `
		SELECT id, COALESCE(client_id, ''), invoice_number, prefix, invoice_date, sequence, allocated_by,
			gst_method, taxable_value, gst_amount, cgst, sgst, grand_total, created_at
		FROM issued_invoices WHERE invoice_number = $1`
	var (
		inv    entity.IssuedInvoice
		method string
	)
	err := r.pool.QueryRow(ctx, query, number).Scan(
		&inv.ID, &inv.ClientID, &inv.InvoiceNumber, &inv.Prefix, &inv.InvoiceDate, &inv.Sequence, &inv.AllocatedBy,
		&method, &inv.TaxableValue, &inv.GSTAmount, &inv.CGST, &inv.SGST, &inv.GrandTotal, &inv.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get issued invoice: %w", err)
	}
	inv.GSTMethod = entity.ParseGSTMethod(method)
	return &inv, nil
}
