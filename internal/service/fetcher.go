package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"catalog/harvester/internal/client"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/domain/task"
	"catalog/harvester/internal/metrics"
	"catalog/harvester/internal/retry"
)

// FetchError is returned when a product page could not be fetched.
type FetchError struct {
	ProductID string
	Attempts  int
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch product %s failed after %d attempt(s): %v", e.ProductID, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type PageFetcher struct {
	client   client.CatalogClient
	policy   retry.Policy
	reporter *failureReporter
}

func NewPageFetcher(client client.CatalogClient, policy retry.Policy) *PageFetcher {
	return &PageFetcher{
		client: client,
		policy: policy,
	}
}

// Fetch retrieves the detail page of ref under the retry policy.
func (f *PageFetcher) Fetch(ctx context.Context, ref domain.ProductRef) (*domain.FetchedPage, error) {
	policy := f.policy
	policy.OnRetry = func(attempt int, err error) {
		log.Warnf("⚠️ Attempt %d failed for product %s: %v. Retrying in %s...", attempt, ref.ProductID, err, policy.Backoff)
	}

	var content string
	attempts, err := policy.Do(ctx, func(ctx context.Context, _ int) error {
		body, err := f.client.GetProductPage(ctx, ref.ProductID)
		if err != nil {
			return err
		}
		content = body
		return nil
	})
	metrics.ObserveAttempts("page", attempts)

	if err != nil {
		return nil, &FetchError{ProductID: ref.ProductID, Attempts: attempts, Err: err}
	}

	return &domain.FetchedPage{
		ProductID:    ref.ProductID,
		CategoryPath: ref.CategoryPath,
		RawContent:   content,
	}, nil
}

// FetchAll fetches every ref with at most limit requests in flight. Failed
// fetches are logged, recorded and left out; the remaining pages keep the order
// of refs.
func (f *PageFetcher) FetchAll(ctx context.Context, refs []domain.ProductRef, limit int) []*domain.FetchedPage {
	results := make([]*domain.FetchedPage, len(refs))

	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, ref := range refs {
		g.Go(func() error {
			page, err := f.Fetch(ctx, ref)
			if err != nil {
				log.Errorf("❌ Dropping product %s: %v", ref.ProductID, err)
				metrics.ObservePage("dropped")

				attempts := 0
				var fetchErr *FetchError
				if errors.As(err, &fetchErr) {
					attempts = fetchErr.Attempts
				}
				f.reporter.productFailed(ctx, ref.ProductID, ref.CategoryPath, task.StageFetch, attempts, err)
				return nil
			}

			metrics.ObservePage("fetched")
			results[i] = page
			return nil
		})
	}
	_ = g.Wait()

	pages := make([]*domain.FetchedPage, 0, len(results))
	for _, page := range results {
		if page != nil {
			pages = append(pages, page)
		}
	}

	log.Infof("📄 Fetched %d of %d product pages", len(pages), len(refs))
	return pages
}

// NewPagePolicy builds the retry policy for detail pages: any failure is
// retried up to the attempt budget.
func NewPagePolicy(attempts int, backoff time.Duration) retry.Policy {
	return retry.Policy{
		Attempts: attempts,
		Backoff:  backoff,
		Classify: client.ClassifyPage,
	}
}

// NewAssetPolicy builds the retry policy for asset downloads. Not found and other
// permanent statuses end the download after one attempt.
func NewAssetPolicy(attempts int, backoff time.Duration) retry.Policy {
	return retry.Policy{
		Attempts: attempts,
		Backoff:  backoff,
		Classify: client.ClassifyAsset,
	}
}
