package docpdf

import (
	"strconv"
	"strings"
)

var namedColors = map[string][3]int{
	"black": {0, 0, 0},
	"white": {255, 255, 255},
	"gray":  {128, 128, 128},
	"grey":  {128, 128, 128},
	"red":   {255, 0, 0},
	"green": {0, 128, 0},
	"blue":  {0, 0, 255},
}

// parseColor accepts #rgb, #rrggbb and a few CSS color names.
func parseColor(value string) (r, g, b int, ok bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return 0, 0, 0, false
	}
	if rgb, found := namedColors[value]; found {
		return rgb[0], rgb[1], rgb[2], true
	}

	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	parsed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(parsed >> 16 & 0xff), int(parsed >> 8 & 0xff), int(parsed & 0xff), true
}
