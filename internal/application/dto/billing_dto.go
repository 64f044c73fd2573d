package dto

import (
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
)

// InvoiceRequest body común de /api/invoices/*.
// La configuración del negocio llega por client_id (se busca en la base) o inline en client.
type InvoiceRequest struct {
	ClientID      string                   `json:"client_id,omitempty"`
	Client        *entity.ClientConfig     `json:"client,omitempty"`
	InvoiceNumber string                   `json:"invoice_number,omitempty"` // opcional; vacío => se asigna
	Date          string                   `json:"date,omitempty"`           // YYYY-MM-DD; vacío => hoy
	Items         []entity.LineItem        `json:"items"`
	Customer      entity.Customer          `json:"customer"`
	Payment       *entity.PaymentBreakdown `json:"payment,omitempty"`
	CreatedAt     any                      `json:"created_at,omitempty"` // unix s/ms o ISO, para el recibo
}

// PrintRequest body de POST /api/invoices/print.
type PrintRequest struct {
	InvoiceRequest
	DeviceID string `json:"device_id"`
}

// PrintResponse resultado de una impresión.
type PrintResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	DeviceID      string `json:"device_id"`
}

// NumberRequest body de POST /api/invoices/number.
type NumberRequest struct {
	Prefix string `json:"prefix"`
	Date   string `json:"date"` // YYYY-MM-DD
}

// NumberResponse número asignado y nivel que lo resolvió.
type NumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
	Sequence      int    `json:"sequence"`
	Tier          string `json:"tier"`
}

// SequenceNextRequest contrato del servicio de consecutivos.
type SequenceNextRequest struct {
	Prefix string `json:"prefix"`
	Date   string `json:"date"`
}

// SequenceNextResponse contrato del servicio de consecutivos (sin envoltorio Result).
type SequenceNextResponse struct {
	Success    bool   `json:"success"`
	NextNumber int    `json:"next_number,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ConnectPrinterRequest body de POST /api/printers/connect.
type ConnectPrinterRequest struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"` // network | usb
	Address string `json:"address"`
}
