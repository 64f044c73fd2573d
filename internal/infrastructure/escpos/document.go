// Package escpos arma el flujo de bytes ESC/POS del recibo térmico (58 mm, 32 columnas).
package escpos

import (
	"bytes"
	"strings"
)

// Comandos ESC/POS.
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alineación (ESC a n).
const (
	AlignPosLeft   = 0
	AlignPosCenter = 1
	AlignPosRight  = 2
)

// Tamaño de fuente (GS ! n).
const (
	FontNormal = 0x00
	FontTall   = 0x01 // doble alto
	FontWide   = 0x10 // doble ancho
	FontDouble = 0x11
)

// Document acumula comandos y texto. Todos los métodos devuelven el documento
// para encadenar llamadas.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument crea el documento y emite ESC @. width <= 0 usa Width.
func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width
	}
	d := &Document{width: width}
	d.Init()
	return d
}

// Init ESC @ (reinicia la impresora).
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// FeedLines n saltos de línea.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign ESC a n.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold ESC E n.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize GS ! n.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text escribe s y un salto de línea.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// Lines escribe cada línea con su salto.
func (d *Document) Lines(lines []string) *Document {
	for _, l := range lines {
		d.Text(l)
	}
	return d
}

// Separator línea completa con el carácter dado.
func (d *Document) Separator(char byte) *Document {
	return d.Text(strings.Repeat(string(char), d.width))
}

// KeyValue etiqueta a la izquierda y valor a la derecha en la misma línea.
func (d *Document) KeyValue(key, value string) *Document {
	return d.Text(alignRight(key, value, d.width))
}

// Cut GS V 0 (corte total).
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut GS V 1.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes flujo acumulado.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}
