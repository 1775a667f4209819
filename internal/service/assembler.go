package service

import (
	"fmt"

	"catalog/harvester/internal/domain"
)

// Assemble combines the extracted parts of a page into a record. A part row with
// a malformed quantity fails the whole product.
func Assemble(
	page *domain.FetchedPage,
	specs map[string]string,
	rows []domain.PartRow,
	description *string,
	assets domain.AssetBundle,
) (*domain.ProductRecord, error) {
	if specs == nil {
		specs = map[string]string{}
	}

	bom := make([]domain.PartLine, 0, len(rows))
	for i, row := range rows {
		line, err := domain.NewPartLine(row)
		if err != nil {
			return nil, fmt.Errorf("product %s, part row %d: %w", page.ProductID, i+1, err)
		}
		bom = append(bom, line)
	}

	return &domain.ProductRecord{
		ProductID:   page.ProductID,
		Name:        page.CategoryPath,
		Description: description,
		Specs:       specs,
		BOM:         bom,
		Assets:      assets,
	}, nil
}
