package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"catalog/harvester/internal/client"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/domain/task"
	"catalog/harvester/internal/extractor"
	"catalog/harvester/internal/metrics"
	"catalog/harvester/internal/queue"
	"catalog/harvester/internal/repository"
	"catalog/harvester/internal/state"
	"catalog/harvester/internal/storage"
)

// Options tunes a harvest run.
type Options struct {
	MaxProducts int
	PageSize    int
	Retries     int
	Backoff     time.Duration
	Concurrency int // Parallel fetches and products; <= 0 means unbounded
}

type Service struct {
	catalog      *CategoryCatalog
	paginator    *ListingPaginator
	fetcher      *PageFetcher
	downloader   *AssetDownloader
	extractor    extractor.PageExtractor
	repository   repository.ProductRepository
	stateManager state.StateManager
	reporter     *failureReporter

	runID       string
	maxProducts int
	concurrency int
}

func NewService(
	catalogClient client.CatalogClient,
	pageExtractor extractor.PageExtractor,
	store *storage.AssetStore,
	repo repository.ProductRepository,
	failures queue.Queue,
	stateManager state.StateManager,
	opts Options,
) *Service {
	if failures == nil {
		failures = queue.NewNoopQueue()
	}
	if stateManager == nil {
		stateManager = state.NewNoopStateManager()
	}

	runID := uuid.NewString()
	reporter := &failureReporter{queue: failures, runID: runID}
	fetcher := NewPageFetcher(catalogClient, NewPagePolicy(opts.Retries, opts.Backoff))
	fetcher.reporter = reporter

	downloader := NewAssetDownloader(catalogClient, pageExtractor, store, NewAssetPolicy(opts.Retries, opts.Backoff))
	downloader.reporter = reporter

	return &Service{
		catalog:      NewCategoryCatalog(catalogClient),
		paginator:    NewListingPaginator(catalogClient, opts.PageSize),
		fetcher:      fetcher,
		downloader:   downloader,
		extractor:    pageExtractor,
		repository:   repo,
		stateManager: stateManager,
		reporter:     reporter,
		runID:        runID,
		maxProducts:  opts.MaxProducts,
		concurrency:  opts.Concurrency,
	}
}

func (s *Service) RunID() string {
	return s.runID
}

// Run harvests the catalog once. Only category and listing failures are
// returned; product and asset failures are logged and skipped.
func (s *Service) Run(ctx context.Context) (*state.RunSummary, error) {
	logger := log.WithField("run_id", s.runID)
	logger.Infof("🚀 Starting harvest (max products: %d, concurrency: %d)", s.maxProducts, s.concurrency)

	if last, err := s.stateManager.LastSummary(ctx); err != nil {
		logger.Warnf("⚠️ Failed to load previous run summary: %v", err)
	} else if last != nil {
		logger.Infof("📊 Previous run %s produced %d of %d results (%.2f%%)",
			last.RunID, last.Produced, last.Total, last.Coverage())
	}

	categories, refs, err := s.Discover(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, category := range categories {
		total += category.ItemCount
	}

	pages := s.fetcher.FetchAll(ctx, refs, s.concurrency)
	records := s.processAll(ctx, pages)
	produced := s.persist(ctx, records)

	summary := state.RunSummary{
		RunID:      s.runID,
		Produced:   produced,
		Discovered: len(refs),
		Total:      total,
		FinishedAt: time.Now().UTC(),
	}

	logger.Infof("Scraped %d products out of %d results (%.2f%%)", summary.Produced, summary.Total, summary.Coverage())

	if err := s.stateManager.SaveSummary(ctx, summary); err != nil {
		logger.Warnf("⚠️ Failed to save run summary: %v", err)
	}

	return &summary, nil
}

// Discover lists the categories and collects up to maxProducts refs, visiting
// categories from the last discovered to the first.
func (s *Service) Discover(ctx context.Context) ([]domain.CategoryNode, []domain.ProductRef, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, nil, err
	}

	acc := NewAccumulator(s.maxProducts)
	for i := len(categories) - 1; i >= 0 && !acc.Full(); i-- {
		category := categories[i]
		log.Infof("🔍 Fetching codes for category %s with %d items...", category.ID, category.ItemCount)

		if err := s.paginator.Collect(ctx, category.ID, category.ItemCount, acc); err != nil {
			return nil, nil, err
		}
	}

	metrics.SetDiscovered(acc.Len())
	log.Infof("📦 Collected %d product codes", acc.Len())
	return categories, acc.Refs(), nil
}

func (s *Service) processAll(ctx context.Context, pages []*domain.FetchedPage) []*domain.ProductRecord {
	results := make([]*domain.ProductRecord, len(pages))

	g := new(errgroup.Group)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}

	for i, page := range pages {
		g.Go(func() error {
			results[i] = s.process(ctx, page)
			return nil
		})
	}
	_ = g.Wait()

	records := make([]*domain.ProductRecord, 0, len(results))
	for _, record := range results {
		if record != nil {
			records = append(records, record)
		}
	}
	return records
}

func (s *Service) process(ctx context.Context, page *domain.FetchedPage) *domain.ProductRecord {
	fields := s.extractor.Extract(page.RawContent)
	assets := s.downloader.download(ctx, page, fields.Image, fields.Drawing)

	record, err := Assemble(page, fields.Specs, fields.Parts, fields.Description, assets)
	if err != nil {
		log.Warnf("⚠️ Dropping product %s: %v", page.ProductID, err)
		metrics.ObserveProduct("malformed")
		s.reporter.productFailed(ctx, page.ProductID, page.CategoryPath, task.StageAssemble, 0, err)
		return nil
	}
	return record
}

func (s *Service) persist(ctx context.Context, records []*domain.ProductRecord) int {
	saved := 0
	for _, record := range records {
		if err := s.repository.SaveProduct(ctx, record); err != nil {
			log.Errorf("❌ Failed to save product %s: %v", record.ProductID, err)
			metrics.ObserveProduct("persist_failed")
			s.reporter.productFailed(ctx, record.ProductID, record.Name, task.StagePersist, 0, err)
			continue
		}

		log.Infof("✅ Saved product %s", record.ProductID)
		metrics.ObserveProduct("persisted")
		saved++
	}
	return saved
}
