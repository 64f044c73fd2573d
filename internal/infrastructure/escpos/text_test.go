package escpos

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignRight_Exactamente32(t *testing.T) {
	got := AlignRight("Total: ", "Rs. 100.00")
	assert.Len(t, got, 32)
	assert.True(t, strings.HasPrefix(got, "Total: "))
	assert.True(t, strings.HasSuffix(got, "Rs. 100.00"))
}

func TestAlignRight_DesbordaSinTruncar(t *testing.T) {
	label := strings.Repeat("a", 20)
	value := strings.Repeat("b", 20)
	got := AlignRight(label, value)
	assert.Equal(t, label+value, got)
	assert.Len(t, got, 40)
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, strings.Repeat(" ", 11)+"Thank you", CenterText("Thank you"))
	assert.Equal(t, strings.Repeat(" ", 11)+"Thank you!", CenterText("Thank you!"))
	long := strings.Repeat("x", 40)
	assert.Equal(t, long, CenterText(long))
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"cabe en una línea", "Blue Widget", 32, []string{"Blue Widget"}},
		{"corta en el último espacio", "Four Hundred Seventy Two Rupees Only", 32, []string{"Four Hundred Seventy Two Rupees", "Only"}},
		{"sin espacios corta duro", "ABCDEFGHIJ", 4, []string{"ABCD", "EFGH", "IJ"}},
		{"espacio justo en el ancho", "abcd efgh", 4, []string{"abcd", "efgh"}},
		{"vacío", "   ", 32, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.in, tt.width))
		})
	}
}

func TestWrapText_NingunaLineaExcedeElAncho(t *testing.T) {
	in := "Premium stainless steel kitchen storage container with airtight lid 1500ml"
	for _, l := range WrapText(in, Width) {
		assert.LessOrEqual(t, len(l), Width, l)
	}
}

func TestAlignRight_MideColumnasNoBytes(t *testing.T) {
	got := AlignRight("Café Crème x2:", "Rs. 1.00")
	assert.Equal(t, Width, runewidth.StringWidth(got))
	assert.Equal(t, "Café Crème x2:"+strings.Repeat(" ", 10)+"Rs. 1.00", got)
}

func TestCenterText_NoASCII(t *testing.T) {
	assert.Equal(t, strings.Repeat(" ", 11)+"Gracias ñ", CenterText("Gracias ñ"))
}

func TestWrapText_DevanagariSinRomperUTF8(t *testing.T) {
	in := "हिंदी में लिखा गया एक लंबा उत्पाद विवरण जो एक पंक्ति में नहीं समाता है"
	lines := WrapText(in, Width)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.True(t, utf8.ValidString(l), l)
		assert.LessOrEqual(t, runewidth.StringWidth(l), Width, l)
	}
	assert.Equal(t, strings.Fields(in), strings.Fields(strings.Join(lines, " ")))
}

func TestWrapText_SinEspaciosMultibyte(t *testing.T) {
	lines := WrapText("ñññññ", 2)
	assert.Equal(t, []string{"ññ", "ññ", "ñ"}, lines)
}
