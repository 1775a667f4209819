package repository

import (
	"context"
	"errors"

	"catalog/harvester/internal/domain"
)

type ProductRepository interface {
	SaveProduct(ctx context.Context, record *domain.ProductRecord) error
}

type multiRepository struct {
	repos []ProductRepository
}

// NewMultiRepository writes every record to all given repositories. A failure in
// one does not skip the others.
func NewMultiRepository(repos ...ProductRepository) ProductRepository {
	if len(repos) == 1 {
		return repos[0]
	}
	return &multiRepository{repos: repos}
}

func (r *multiRepository) SaveProduct(ctx context.Context, record *domain.ProductRecord) error {
	var errs []error
	for _, repo := range r.repos {
		if err := repo.SaveProduct(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
