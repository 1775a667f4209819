package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/client"
	"catalog/harvester/internal/domain"
)

const DefaultPageSize = 50

// Accumulator collects product refs up to a fixed limit. It is owned by the
// sequential pagination pass and is not safe for concurrent use.
type Accumulator struct {
	refs  []domain.ProductRef
	limit int
}

func NewAccumulator(limit int) *Accumulator {
	if limit < 0 {
		limit = 0
	}
	return &Accumulator{
		refs:  make([]domain.ProductRef, 0, limit),
		limit: limit,
	}
}

// Remaining is the number of refs that can still be added.
func (a *Accumulator) Remaining() int {
	return a.limit - len(a.refs)
}

func (a *Accumulator) Full() bool {
	return a.Remaining() <= 0
}

func (a *Accumulator) Len() int {
	return len(a.refs)
}

// Add appends ref unless the limit is reached and reports whether it was added.
func (a *Accumulator) Add(ref domain.ProductRef) bool {
	if a.Full() {
		return false
	}
	a.refs = append(a.refs, ref)
	return true
}

// Refs returns a copy of the collected refs in insertion order.
func (a *Accumulator) Refs() []domain.ProductRef {
	out := make([]domain.ProductRef, len(a.refs))
	copy(out, a.refs)
	return out
}

type ListingPaginator struct {
	client   client.CatalogClient
	pageSize int
}

func NewListingPaginator(client client.CatalogClient, pageSize int) *ListingPaginator {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &ListingPaginator{
		client:   client,
		pageSize: pageSize,
	}
}

// Collect walks the category's listing pages one at a time and adds refs to acc
// until the category or the accumulator's capacity is exhausted. Never more than
// ceil(itemCount/pageSize) pages are requested.
func (p *ListingPaginator) Collect(ctx context.Context, categoryID domain.CategoryID, itemCount int, acc *Accumulator) error {
	totalPages := (itemCount + p.pageSize - 1) / p.pageSize

	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		if acc.Full() {
			return nil
		}

		size := min(p.pageSize, acc.Remaining())
		matches, err := p.client.GetListingPage(ctx, categoryID, pageIndex, size)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUpstream, err)
		}

		for _, match := range matches {
			if match.Code == "" {
				log.Debugf("Skipping listing match without code on page %d of category %s", pageIndex, categoryID)
				continue
			}

			added := acc.Add(domain.ProductRef{
				ProductID:    match.Code,
				CategoryPath: match.Labels().Path(),
			})
			if !added {
				return nil
			}
		}
	}

	return nil
}
