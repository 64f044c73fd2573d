// Package metrics expone contadores Prometheus del motor de facturación.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InvoiceNumbersAllocated consecutivos asignados por nivel (remote, local, random).
var InvoiceNumbersAllocated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "invoice",
	Name:      "numbers_allocated_total",
	Help:      "Invoice numbers allocated, by fallback tier.",
}, []string{"tier"})

// DocumentsRendered documentos generados por tipo (pdf, escpos) y resultado (ok, error).
var DocumentsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "invoice",
	Name:      "documents_rendered_total",
	Help:      "Rendered invoice documents, by kind and result.",
}, []string{"kind", "result"})

// PrinterChunksWritten bloques enviados a impresoras térmicas.
var PrinterChunksWritten = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "invoice",
	Name:      "printer_chunks_written_total",
	Help:      "ESC/POS chunks written to printer transports.",
})

// PrintDuration duración de una impresión completa.
var PrintDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "invoice",
	Name:      "print_duration_seconds",
	Help:      "Time spent transmitting a receipt to the printer.",
	Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
})
