package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invoice-gst-engine/internal/application/billing"
	"github.com/jhoicas/invoice-gst-engine/internal/domain"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
)

// InvoiceFile factura descrita en TOML para renders sin servidor.
//
//	invoice_number = "INV-D-2025-01-05-001"   # opcional
//	date = "2025-01-05"
//
//	[client]
//	inv_prefix = "INV"
//	gst_method = "Exclusive GST"
//	client_name = "Sharma Traders"
//
//	[[items]]
//	name = "Widget"
//	quantity = 2
//	unit_price = "100.00"
//	gst_rate = "18"
type InvoiceFile struct {
	InvoiceNumber string                   `toml:"invoice_number"`
	Date          string                   `toml:"date"`
	CreatedAt     string                   `toml:"created_at"`
	Client        entity.ClientConfig      `toml:"client"`
	Customer      entity.Customer          `toml:"customer"`
	Items         []entity.LineItem        `toml:"items"`
	Payment       *entity.PaymentBreakdown `toml:"payment"`
}

// LoadInvoiceFile lee y decodifica el archivo. Las claves desconocidas solo se registran.
func LoadInvoiceFile(path string) (*InvoiceFile, error) {
	var f InvoiceFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("%w: leer %s: %w", domain.ErrInvalidInput, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Warn().Strs("keys", keys).Str("file", path).Msg("claves ignoradas en el archivo de factura")
	}
	return &f, nil
}

// Request convierte el archivo en la solicitud del caso de uso.
func (f *InvoiceFile) Request() (billing.CreateInvoiceRequest, error) {
	var date time.Time
	if s := strings.TrimSpace(f.Date); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return billing.CreateInvoiceRequest{}, fmt.Errorf("%w: fecha %q no es YYYY-MM-DD", domain.ErrInvalidInput, s)
		}
		date = t
	}

	var createdAt any
	if s := strings.TrimSpace(f.CreatedAt); s != "" {
		createdAt = s
	}

	return billing.CreateInvoiceRequest{
		InvoiceNumber: f.InvoiceNumber,
		Date:          date,
		Items:         f.Items,
		Client:        f.Client,
		Customer:      f.Customer,
		Payment:       f.Payment,
		CreatedAt:     createdAt,
	}, nil
}
