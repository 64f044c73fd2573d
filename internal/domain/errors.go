package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Validación de la factura antes de renderizar.
	ErrMissingInvoiceNumber = errors.New("factura sin número")
	ErrNoLineItems          = errors.New("factura sin líneas")

	// Asignación de consecutivos.
	ErrSequenceUnavailable = errors.New("servicio de consecutivos no disponible")
	ErrCounterStorage      = errors.New("almacenamiento local del contador falló")

	// Impresora térmica: nunca conectada vs. desconectada durante la impresión.
	ErrPrinterNotConnected = errors.New("impresora no conectada")
	ErrPrinterDisconnected = errors.New("impresora desconectada durante la impresión")

	ErrRenderFailed = errors.New("falló la generación del documento")
)
