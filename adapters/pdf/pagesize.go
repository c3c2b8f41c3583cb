package docpdf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-docrender/document"
)

const pointsPerInch = 72.0

// pageSize is a portrait paper size in points plus the gofpdf size name.
type pageSize struct {
	name   string
	width  float64
	height float64
}

var pageSizes = map[string]pageSize{
	"A3":     {name: "A3", width: 841.89, height: 1190.55},
	"A4":     {name: "A4", width: 595.28, height: 841.89},
	"A5":     {name: "A5", width: 419.53, height: 595.28},
	"LETTER": {name: "Letter", width: 612, height: 792},
	"LEGAL":  {name: "Legal", width: 612, height: 1008},
}

func lookupPageSize(value string) (pageSize, error) {
	key := strings.ToUpper(strings.TrimSpace(value))
	if key == "" {
		key = document.DefaultPageSize
	}
	size, ok := pageSizes[key]
	if !ok {
		return pageSize{}, document.NewError(document.KindValidation, fmt.Sprintf("unsupported pdf page size: %s", value), nil)
	}
	return size, nil
}

var lengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

// parseLength converts a CSS-like length to points. Bare numbers are inches.
func parseLength(value string) (float64, error) {
	matches := lengthPattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return 0, document.NewError(document.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), nil)
	}

	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, document.NewError(document.KindValidation, fmt.Sprintf("invalid pdf length: %s", value), err)
	}

	switch unit := strings.ToLower(matches[2]); unit {
	case "", "in":
		return amount * pointsPerInch, nil
	case "cm":
		return amount / 2.54 * pointsPerInch, nil
	case "mm":
		return amount / 25.4 * pointsPerInch, nil
	case "pt":
		return amount, nil
	case "px":
		return amount * 0.75, nil
	default:
		return 0, document.NewError(document.KindValidation, fmt.Sprintf("unsupported pdf length unit: %s", unit), nil)
	}
}
