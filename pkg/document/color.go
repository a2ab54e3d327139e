package document

import "strconv"

// Luminance returns the relative luminance of a #RRGGBB or #RGB hex color in
// [0, 1], using the Rec. 709 coefficients. Unparseable input reports ok false.
func Luminance(hex string) (float64, bool) {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return 0, false
	}
	return 0.2126*r + 0.7152*g + 0.0722*b, true
}

// IsDark reports whether the color's luminance falls below the threshold.
// Unparseable colors count as light.
func IsDark(hex string, threshold float64) bool {
	lum, ok := Luminance(hex)
	return ok && lum < threshold
}

func parseHex(hex string) (r, g, b float64, ok bool) {
	if len(hex) == 0 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	s := hex[1:]
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	r = float64(v>>16&0xff) / 255
	g = float64(v>>8&0xff) / 255
	b = float64(v&0xff) / 255
	return r, g, b, true
}
