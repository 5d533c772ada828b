package render

import (
	"regexp"
	"strconv"
	"strings"
)

// Style defaults applied when a template's rich-text fragment is absent
// or malformed.
const (
	DefaultFontSizePx = 16.0
	DefaultColorHex   = "#000000"
	DefaultFontFamily = "Helvetica"
)

var (
	fontSizeRe   = regexp.MustCompile(`(?i)font-size:\s*(\d+)px`)
	colorRe      = regexp.MustCompile(`(?i)color:\s*(#[0-9A-Fa-f]+)`)
	fontFamilyRe = regexp.MustCompile(`(?i)font-family:\s*([^;"'<>]+)`)
)

// TextStyle is the explicit style record for one dynamic text element,
// extracted once from the template's rich-text fragment.
type TextStyle struct {
	SizePx   float64
	ColorHex string
	Family   string
}

// DefaultStyle returns the neutral fallback style.
func DefaultStyle() TextStyle {
	return TextStyle{
		SizePx:   DefaultFontSizePx,
		ColorHex: DefaultColorHex,
		Family:   DefaultFontFamily,
	}
}

// ParseStyle extracts font size, color and family from a rich-text
// fragment such as
//
//	<span style="font-size: 24px; color: #b8860b; font-family: Times New Roman">
//
// Any attribute that is missing or malformed keeps its fallback value.
func ParseStyle(fragment *string) TextStyle {
	style := DefaultStyle()
	if fragment == nil || *fragment == "" {
		return style
	}

	if m := fontSizeRe.FindStringSubmatch(*fragment); m != nil {
		if size, err := strconv.ParseFloat(m[1], 64); err == nil && size > 0 {
			style.SizePx = size
		}
	}
	if m := colorRe.FindStringSubmatch(*fragment); m != nil && len(m[1]) == 7 {
		style.ColorHex = m[1]
	}
	if m := fontFamilyRe.FindStringSubmatch(*fragment); m != nil {
		style.Family = strings.TrimSpace(m[1])
	}
	return style
}

// RGB decodes the style's hex color. Anything that is not a full
// #rrggbb triplet decodes to black.
func (s TextStyle) RGB() (int, int, int) {
	hex := s.ColorHex
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	r, err1 := strconv.ParseUint(hex[1:3], 16, 8)
	g, err2 := strconv.ParseUint(hex[3:5], 16, 8)
	b, err3 := strconv.ParseUint(hex[5:7], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0
	}
	return int(r), int(g), int(b)
}

// FontName maps the declared family onto one of the built-in PDF core
// fonts. Anything unrecognized renders as Helvetica.
func (s TextStyle) FontName() string {
	switch {
	case strings.Contains(s.Family, "Courier"):
		return "Courier"
	case strings.Contains(s.Family, "Times"):
		return "Times"
	default:
		return "Helvetica"
	}
}
