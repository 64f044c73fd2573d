package billing

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jhoicas/invoice-gst-engine/internal/domain"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/metrics"
)

// PrintConfig parámetros de transmisión hacia la impresora.
type PrintConfig struct {
	ChunkSize  int           // bytes por escritura (por defecto 100)
	ChunkDelay time.Duration // pausa entre escrituras para no desbordar el buffer
}

// DefaultPrintConfig valores por defecto.
func DefaultPrintConfig() PrintConfig {
	return PrintConfig{ChunkSize: 100, ChunkDelay: 50 * time.Millisecond}
}

// PrintUseCase imprime el recibo ESC/POS de una factura ya calculada.
// El recibo se arma completo en memoria, se verifica la conexión y luego se
// transmite por bloques. Cancelar el ctx detiene el envío entre bloques; lo ya
// enviado queda en la impresora (recibo truncado).
type PrintUseCase struct {
	formatter ReceiptFormatter
	transport PrinterTransport
	cfg       PrintConfig
}

// NewPrintUseCase construye el caso de uso.
func NewPrintUseCase(formatter ReceiptFormatter, transport PrinterTransport, cfg PrintConfig) *PrintUseCase {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultPrintConfig().ChunkSize
	}
	return &PrintUseCase{formatter: formatter, transport: transport, cfg: cfg}
}

// Print valida, formatea y envía el recibo al dispositivo.
//
// Retorna:
//   - domain.ErrInvalidInput si la factura es inválida (no se envía nada).
//   - domain.ErrPrinterNotConnected si el dispositivo no está conectado al empezar.
//   - domain.ErrPrinterDisconnected si se desconectó a mitad de la impresión.
func (uc *PrintUseCase) Print(ctx context.Context, inv *entity.Invoice, deviceID string) error {
	if err := ValidateInvoice(inv); err != nil {
		return err
	}
	data := uc.formatter.FormatReceipt(inv)

	connected, err := uc.isConnected(ctx, deviceID)
	if err != nil {
		return err
	}
	if !connected {
		return fmt.Errorf("%w: dispositivo %q", domain.ErrPrinterNotConnected, deviceID)
	}

	start := time.Now()
	if err := uc.transmit(ctx, deviceID, data); err != nil {
		metrics.DocumentsRendered.WithLabelValues("escpos", "error").Inc()
		log.Error().Err(err).Str("invoice", inv.Number).Str("device", deviceID).Msg("impresión fallida")
		return err
	}
	metrics.DocumentsRendered.WithLabelValues("escpos", "ok").Inc()
	metrics.PrintDuration.Observe(time.Since(start).Seconds())
	log.Info().Str("invoice", inv.Number).Str("device", deviceID).Int("bytes", len(data)).Msg("recibo impreso")
	return nil
}

func (uc *PrintUseCase) transmit(ctx context.Context, deviceID string, data []byte) error {
	limit := rate.Inf
	if uc.cfg.ChunkDelay > 0 {
		limit = rate.Every(uc.cfg.ChunkDelay)
	}
	limiter := rate.NewLimiter(limit, 1)

	chunks := splitChunks(data, uc.cfg.ChunkSize)
	for i, chunk := range chunks {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("printer: envío interrumpido en bloque %d de %d: %w", i+1, len(chunks), err)
		}
		if err := uc.transport.Write(ctx, deviceID, chunk); err != nil {
			connected, cErr := uc.isConnected(ctx, deviceID)
			if cErr == nil && !connected {
				return fmt.Errorf("%w: dispositivo %q en bloque %d de %d: %v",
					domain.ErrPrinterDisconnected, deviceID, i+1, len(chunks), err)
			}
			return fmt.Errorf("printer: escribir bloque %d de %d: %w", i+1, len(chunks), err)
		}
		metrics.PrinterChunksWritten.Inc()
	}
	return nil
}

func (uc *PrintUseCase) isConnected(ctx context.Context, deviceID string) (bool, error) {
	devices, err := uc.transport.ConnectedDevices(ctx)
	if err != nil {
		return false, fmt.Errorf("printer: listar dispositivos conectados: %w", err)
	}
	return slices.Contains(devices, deviceID), nil
}

// splitChunks divide data en trozos de max n bytes.
func splitChunks(data []byte, n int) [][]byte {
	var parts [][]byte
	for len(data) > n {
		parts = append(parts, data[:n])
		data = data[n:]
	}
	if len(data) > 0 {
		parts = append(parts, data)
	}
	return parts
}
