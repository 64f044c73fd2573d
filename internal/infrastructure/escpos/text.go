package escpos

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Width columnas de un rollo de 58 mm.
const Width = 32

// TextWidth columnas que ocupa s en la impresora (por grafema, no por byte).
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

// AlignRight rellena con espacios para que label+relleno+value mida Width.
// Si no cabe, el relleno es 0 y la línea desborda; no se trunca.
func AlignRight(label, value string) string {
	return alignRight(label, value, Width)
}

func alignRight(label, value string, width int) string {
	pad := width - TextWidth(label) - TextWidth(value)
	if pad < 0 {
		pad = 0
	}
	return label + strings.Repeat(" ", pad) + value
}

// CenterText antepone floor((Width-ancho)/2) espacios.
func CenterText(s string) string {
	pad := (Width - TextWidth(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// WrapText corta en el último espacio dentro de width; sin espacios, corta en width.
// Nunca parte un carácter multibyte.
func WrapText(s string, width int) []string {
	if width <= 0 {
		width = Width
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var lines []string
	for TextWidth(s) > width {
		fit := runewidth.Truncate(s, width, "")
		rest := s[len(fit):]

		cut := strings.LastIndexByte(fit, ' ')
		if strings.HasPrefix(rest, " ") {
			cut = len(fit)
		}
		if cut <= 0 {
			if fit == "" {
				// un solo grafema más ancho que width
				_, size := firstGrapheme(s)
				fit, rest = s[:size], s[size:]
			}
			lines = append(lines, fit)
			s = strings.TrimLeft(rest, " ")
			continue
		}
		lines = append(lines, strings.TrimRight(s[:cut], " "))
		s = strings.TrimLeft(s[cut+1:], " ")
	}
	if s != "" {
		lines = append(lines, s)
	}
	return lines
}

// firstGrapheme primer carácter visible de s (con sus marcas combinantes) y su largo en bytes.
func firstGrapheme(s string) (string, int) {
	for i, r := range s {
		if i > 0 && runewidth.RuneWidth(r) > 0 {
			return s[:i], i
		}
	}
	return s, len(s)
}
