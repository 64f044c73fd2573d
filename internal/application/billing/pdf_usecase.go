package billing

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invoice-gst-engine/internal/domain"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/metrics"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)

// PDFFileName nombre sugerido: "Invoice_<número con no alfanuméricos reemplazados por _>.pdf".
func PDFFileName(invoiceNumber string) string {
	return "Invoice_" + nonAlphanumeric.ReplaceAllString(invoiceNumber, "_") + ".pdf"
}

// PDFUseCase genera la representación gráfica (PDF) de una factura ya calculada.
type PDFUseCase struct {
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{generator: generator}
}

// Render valida la factura y genera el PDF.
//
// Retorna:
//   - (doc, nil) con los bytes, su base64 y el nombre de archivo.
//   - domain.ErrInvalidInput (+ ErrMissingInvoiceNumber / ErrNoLineItems) si la factura es inválida.
//   - domain.ErrRenderFailed si la maquetación falla, incluso por pánico; nunca un documento parcial.
func (uc *PDFUseCase) Render(ctx context.Context, inv *entity.Invoice) (doc *entity.RenderedDocument, err error) {
	if err := ValidateInvoice(inv); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: pánico en maquetación: %v", domain.ErrRenderFailed, r)
		}
		if err != nil {
			metrics.DocumentsRendered.WithLabelValues("pdf", "error").Inc()
			log.Error().Err(err).Str("invoice", inv.Number).Msg("pdf: generación fallida")
			return
		}
		metrics.DocumentsRendered.WithLabelValues("pdf", "ok").Inc()
	}()

	pdfBytes, genErr := uc.generator.GenerateInvoicePDF(ctx, inv)
	if genErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRenderFailed, genErr)
	}
	if len(pdfBytes) == 0 {
		return nil, fmt.Errorf("%w: documento vacío", domain.ErrRenderFailed)
	}

	return &entity.RenderedDocument{
		FileName:      PDFFileName(inv.Number),
		ContentType:   "application/pdf",
		Content:       pdfBytes,
		ContentBase64: base64.StdEncoding.EncodeToString(pdfBytes),
	}, nil
}
