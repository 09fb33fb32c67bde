// Package colors provides the FAU corporate color palettes used for
// publication figures, including the shaded per-faculty colormaps and
// lightness adjustment of single colors.
package colors

import (
	"fmt"
	"math"
	"strings"

	apperrors "psykit/internal/errors"
)

// Faculty keys addressing the base palette.
const (
	KeyFAU  = "fau"
	KeyPhil = "phil"
	KeyWiso = "wiso"
	KeyMed  = "med"
	KeyNat  = "nat"
	KeyTech = "tech"
)

// BasePalette holds one representative color per faculty, in the
// canonical key order.
var BasePalette = []string{"#003865", "#c99313", "#8d1429", "#00b1eb", "#009b77", "#98a4ae"}

var facultyKeys = []string{KeyFAU, KeyPhil, KeyWiso, KeyMed, KeyNat, KeyTech}

// Shaded 11-step colormaps per faculty, dark to light.
var shadedPalettes = map[string][]string{
	KeyFAU: {
		"#001628", "#001F38", "#002747", "#003056", "#003865",
		"#26567C", "#4D7493", "#7392AA", "#99AFC1", "#BFCDD9",
		"#E6EBF0",
	},
	KeyWiso: {
		"#1c0408", "#2a060c", "#380810", "#470a15", "#550c19",
		"#711021", "#8d1429", "#a44354", "#bb727f", "#d1a1a9",
		"#e8d0d4",
	},
	KeyPhil: {
		"#3c2c06", "#503b08", "#654a0a", "#79580b", "#a1760f",
		"#c99313", "#d4a942", "#dfbe71", "#e4c989", "#e9d4a1",
		"#f4e9d0",
	},
	KeyMed: {
		"#00232f", "#003547", "#00475e", "#005976", "#006a8d",
		"#008ebc", "#00b1eb", "#33c1ef", "#66d0f3", "#99e0f7",
		"#cceffb",
	},
	KeyNat: {
		"#001f18", "#002f24", "#003e30", "#004e3c", "#005d47",
		"#007c5f", "#009b77", "#33af92", "#66c3ad", "#99d7c9",
		"#ccebe4",
	},
	KeyTech: {
		"#1e2123", "#2e3134", "#3d4246", "#5b6268", "#6a737a",
		"#7a838b", "#98a4ae", "#adb6be", "#b7bfc6", "#c1c8ce",
		"#d6dbdf",
	},
}

var paletteKinds = []string{"", "3", "2", "2_lp"}

// FAUColor returns the representative color of the given faculty key.
func FAUColor(key string) (string, error) {
	for i, k := range facultyKeys {
		if k == key {
			return BasePalette[i], nil
		}
	}
	return "", apperrors.UnknownOption("color key", key, facultyKeys)
}

// Palette returns the shaded colormap of a faculty, optionally sliced for
// a fixed number of plot conditions: "3" picks three spread shades, "2"
// two mid shades, "2_lp" two darker shades for line plots. An empty kind
// returns all eleven shades.
func Palette(key, kind string) ([]string, error) {
	full, ok := shadedPalettes[key]
	if !ok {
		return nil, apperrors.UnknownOption("color key", key, facultyKeys)
	}
	switch kind {
	case "":
		return append([]string(nil), full...), nil
	case "3":
		return slicePalette(full, 1, 3), nil
	case "2":
		return slicePalette(full, 5, 4), nil
	case "2_lp":
		return slicePalette(full, 2, 5), nil
	}
	return nil, apperrors.UnknownOption("palette kind", kind, paletteKinds)
}

func slicePalette(palette []string, start, step int) []string {
	var out []string
	for i := start; i < len(palette); i += step {
		out = append(out, palette[i])
	}
	return out
}

// AdjustColor scales the lightness of a faculty color. amount > 1
// lightens, < 1 darkens; lightness is clamped to [0, 1].
func AdjustColor(key string, amount float64) (string, error) {
	hex, err := FAUColor(key)
	if err != nil {
		return "", err
	}
	r, g, b, err := parseHex(hex)
	if err != nil {
		return "", err
	}
	h, l, s := rgbToHLS(r, g, b)
	l = math.Max(0, math.Min(1, amount*l))
	r, g, b = hlsToRGB(h, l, s)
	return formatHex(r, g, b), nil
}

func parseHex(hex string) (r, g, b float64, err error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 0, 0, 0, apperrors.NewWithDetails(apperrors.CodeValidationFailed,
			"color must be a 6-digit hex string", hex)
	}
	var ri, gi, bi int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 0, 0, 0, apperrors.NewWithDetails(apperrors.CodeValidationFailed,
			"color must be a 6-digit hex string", hex)
	}
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255, nil
}

func formatHex(r, g, b float64) string {
	round := func(v float64) int {
		return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", round(r), round(g), round(b))
}

// rgbToHLS converts RGB in [0,1] to hue, lightness, saturation.
func rgbToHLS(r, g, b float64) (h, l, s float64) {
	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	l = (minc + maxc) / 2
	if minc == maxc {
		return 0, l, 0
	}
	delta := maxc - minc
	if l <= 0.5 {
		s = delta / (maxc + minc)
	} else {
		s = delta / (2 - maxc - minc)
	}
	rc := (maxc - r) / delta
	gc := (maxc - g) / delta
	bc := (maxc - b) / delta
	switch maxc {
	case r:
		h = bc - gc
	case g:
		h = 2 + rc - bc
	default:
		h = 4 + gc - rc
	}
	h = math.Mod(h/6, 1)
	if h < 0 {
		h++
	}
	return h, l, s
}

// hlsToRGB converts hue, lightness, saturation back to RGB in [0,1].
func hlsToRGB(h, l, s float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var m2 float64
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2
	return hueToRGB(m1, m2, h+1.0/3), hueToRGB(m1, m2, h), hueToRGB(m1, m2, h-1.0/3)
}

func hueToRGB(m1, m2, hue float64) float64 {
	hue = math.Mod(hue, 1)
	if hue < 0 {
		hue++
	}
	switch {
	case hue < 1.0/6:
		return m1 + (m2-m1)*hue*6
	case hue < 0.5:
		return m2
	case hue < 2.0/3:
		return m1 + (m2-m1)*(2.0/3-hue)*6
	}
	return m1
}
