package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var ErrMalformedQuantity = errors.New("malformed quantity")

var quantityPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// PartRow is one row of the parts table as it appears on the page.
type PartRow struct {
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"` // Raw cell text, e.g. "12 pcs"
}

type PartLine struct {
	PartNumber  string `json:"part_number"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// NewPartLine converts a raw parts table row, parsing its quantity.
func NewPartLine(row PartRow) (PartLine, error) {
	qty, err := ParseQuantity(row.Quantity)
	if err != nil {
		return PartLine{}, fmt.Errorf("part %s: %w", row.PartNumber, err)
	}

	return PartLine{
		PartNumber:  row.PartNumber,
		Description: row.Description,
		Quantity:    qty,
	}, nil
}

// ParseQuantity extracts the first numeric token of a decorated quantity and
// truncates any fractional part: "12 pcs" is 12, "3.0" is 3.
func ParseQuantity(raw string) (int, error) {
	token := quantityPattern.FindString(raw)
	if token == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedQuantity, raw)
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil || value >= float64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedQuantity, raw)
	}

	return int(value), nil
}
