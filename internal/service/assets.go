package service

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/client"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/extractor"
	"catalog/harvester/internal/metrics"
	"catalog/harvester/internal/retry"
	"catalog/harvester/internal/storage"
)

type AssetDownloader struct {
	client    client.CatalogClient
	extractor extractor.PageExtractor
	store     *storage.AssetStore
	policy    retry.Policy
	reporter  *failureReporter
}

func NewAssetDownloader(client client.CatalogClient, extractor extractor.PageExtractor, store *storage.AssetStore, policy retry.Policy) *AssetDownloader {
	return &AssetDownloader{
		client:    client,
		extractor: extractor,
		store:     store,
		policy:    policy,
	}
}

// Download fetches the image, manual and CAD drawing of page concurrently and
// returns the saved paths. Assets that are missing or failed stay nil.
func (d *AssetDownloader) Download(ctx context.Context, page *domain.FetchedPage) domain.AssetBundle {
	image := d.extractor.ImageReference(page.RawContent)
	drawing := d.extractor.DrawingReference(page.RawContent)
	return d.download(ctx, page, image, drawing)
}

// download works from references already read from the page. An empty image or
// nil drawing means that asset is not requested.
func (d *AssetDownloader) download(ctx context.Context, page *domain.FetchedPage, image string, drawing *domain.DrawingReference) domain.AssetBundle {
	var bundle domain.AssetBundle

	if err := d.store.EnsureDir(page.ProductID); err != nil {
		log.Errorf("❌ Failed to prepare asset directory for %s: %v", page.ProductID, err)
		return bundle
	}

	requests := make([]client.AssetRequest, 0, len(domain.AssetKinds))

	if image != "" {
		requests = append(requests, d.client.ImageRequest(image))
	} else {
		metrics.ObserveAsset(domain.AssetKindImage.String(), "skipped")
	}

	requests = append(requests, d.client.ManualRequest(page.ProductID))

	if drawing != nil {
		requests = append(requests, d.client.DrawingRequest(*drawing))
	} else {
		metrics.ObserveAsset(domain.AssetKindCAD.String(), "skipped")
	}

	paths := make([]*string, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			paths[i] = d.fetch(ctx, page.ProductID, req)
		}()
	}
	wg.Wait()

	for i, req := range requests {
		bundle.Set(req.Kind, paths[i])
	}
	return bundle
}

func (d *AssetDownloader) fetch(ctx context.Context, productID string, req client.AssetRequest) *string {
	kind := req.Kind.String()
	logger := log.WithFields(log.Fields{"product_id": productID, "asset": kind})

	policy := d.policy
	policy.OnRetry = func(attempt int, err error) {
		logger.Warnf("⚠️ Attempt %d failed for %s: %v. Retrying in %s...", attempt, req, err, policy.Backoff)
	}

	var data []byte
	attempts, err := policy.Do(ctx, func(ctx context.Context, _ int) error {
		body, err := d.client.Download(ctx, req)
		if err != nil {
			return err
		}
		data = body
		return nil
	})
	metrics.ObserveAttempts(kind, attempts)

	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			logger.Debugf("No %s available", kind)
			metrics.ObserveAsset(kind, "not_found")
			return nil
		}

		logger.Warnf("⚠️ Giving up on %s after %d attempt(s): %v", kind, attempts, err)
		metrics.ObserveAsset(kind, "failed")
		d.reporter.assetFailed(ctx, productID, req, attempts, err)
		return nil
	}

	path, err := d.store.Write(productID, req.Kind, data)
	if err != nil {
		logger.Errorf("❌ Failed to save %s: %v", kind, err)
		metrics.ObserveAsset(kind, "failed")
		d.reporter.assetFailed(ctx, productID, req, attempts, err)
		return nil
	}

	logger.Debugf("💾 Saved %s to %s", kind, path)
	metrics.ObserveAsset(kind, "saved")
	return &path
}
