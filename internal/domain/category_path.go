package domain

import "strings"

const categoryPathSeparator = " / "

// CategoryLabels is the ordered list of category labels attached to a listing match,
// outermost first.
type CategoryLabels []string

// Path joins the labels into the display name of a product ("Motors / AC Motors").
func (l CategoryLabels) Path() string {
	return strings.Join(l, categoryPathSeparator)
}
