package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CategoryID is the opaque category key of the listing API. The API emits it
// either as a JSON number or a JSON string.
type CategoryID string

func (id CategoryID) String() string {
	return string(id)
}

func (id *CategoryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode category id: %w", err)
		}
		*id = CategoryID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode category id: %w", err)
	}
	*id = CategoryID(n.String())
	return nil
}

type CategoryNode struct {
	ID        CategoryID `json:"id"`    // Listing API category key
	ItemCount int        `json:"count"` // Products listed under the category
}

// ProductRef is a product discovered during pagination.
type ProductRef struct {
	ProductID    string `json:"product_id"`
	CategoryPath string `json:"name"` // Joined category labels, used as the record name
}
