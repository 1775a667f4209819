package service

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/client"
	"catalog/harvester/internal/domain"
)

// ErrUpstream marks listing API failures. They abort the run.
var ErrUpstream = errors.New("upstream listing error")

type CategoryCatalog struct {
	client client.CatalogClient
}

func NewCategoryCatalog(client client.CatalogClient) *CategoryCatalog {
	return &CategoryCatalog{client: client}
}

// ListCategories returns the categories with at least one item, in discovery order.
func (c *CategoryCatalog) ListCategories(ctx context.Context) ([]domain.CategoryNode, error) {
	nodes, err := c.client.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	categories := make([]domain.CategoryNode, 0, len(nodes))
	for _, node := range nodes {
		if node.ItemCount > 0 {
			categories = append(categories, node)
		}
	}

	log.Infof("📂 Found %d categories with items (%d listed)", len(categories), len(nodes))
	return categories, nil
}
