package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestParseStyleExtractsAttributes(t *testing.T) {
	fragment := strPtr(`<span style="font-size: 24px; color: #B8860B; font-family: Times New Roman">Nombre</span>`)

	style := ParseStyle(fragment)
	assert.Equal(t, 24.0, style.SizePx)
	assert.Equal(t, "#B8860B", style.ColorHex)
	assert.Equal(t, "Times New Roman", style.Family)
	assert.Equal(t, "Times", style.FontName())

	r, g, b := style.RGB()
	assert.Equal(t, 0xB8, r)
	assert.Equal(t, 0x86, g)
	assert.Equal(t, 0x0B, b)
}

func TestParseStyleFallbacks(t *testing.T) {
	cases := []struct {
		name     string
		fragment *string
	}{
		{"nil fragment", nil},
		{"empty fragment", strPtr("")},
		{"no style attributes", strPtr("<span>plain</span>")},
		{"malformed values", strPtr(`<span style="font-size: hugepx; color: #XYZ">x</span>`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			style := ParseStyle(tc.fragment)
			assert.Equal(t, DefaultFontSizePx, style.SizePx)
			assert.Equal(t, DefaultColorHex, style.ColorHex)
			assert.Equal(t, DefaultFontFamily, style.Family)
			assert.Equal(t, "Helvetica", style.FontName())
		})
	}
}

func TestParseStyleShortHexColorIgnored(t *testing.T) {
	style := ParseStyle(strPtr(`<span style="color: #fff">x</span>`))
	assert.Equal(t, DefaultColorHex, style.ColorHex)
}

func TestFontNameMapping(t *testing.T) {
	assert.Equal(t, "Courier", TextStyle{Family: "Courier New"}.FontName())
	assert.Equal(t, "Times", TextStyle{Family: "Times-Roman"}.FontName())
	assert.Equal(t, "Helvetica", TextStyle{Family: "Comic Sans MS"}.FontName())
}

func TestFormatLongDate(t *testing.T) {
	assert.Equal(t, "5 de marzo de 2024",
		FormatLongDate(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31 de diciembre de 2025",
		FormatLongDate(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
}
