package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"catalog/harvester/internal/client"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/domain/task"
)

type listingCall struct {
	Category  domain.CategoryID
	PageIndex int
	PageSize  int
}

// fakeCatalog is an in-memory CatalogClient. Errors queued in pageErrs and
// assetErrs are returned in order before the call succeeds.
type fakeCatalog struct {
	mu sync.Mutex

	categories    []domain.CategoryNode
	categoriesErr error
	listings      map[domain.CategoryID][]client.ListingMatch
	listingErr    error
	listingCalls  []listingCall
	oversizePages bool // ignore the requested page size

	pages     map[string]string
	pageErrs  map[string][]error
	pageCalls map[string]int
	pageDelay time.Duration

	assetErrs  map[string][]error
	assetCalls map[string]int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		listings:   map[domain.CategoryID][]client.ListingMatch{},
		pages:      map[string]string{},
		pageErrs:   map[string][]error{},
		pageCalls:  map[string]int{},
		assetErrs:  map[string][]error{},
		assetCalls: map[string]int{},
	}
}

func (f *fakeCatalog) addCategory(id domain.CategoryID, codes ...string) {
	f.categories = append(f.categories, domain.CategoryNode{ID: id, ItemCount: len(codes)})
	for _, code := range codes {
		match := client.ListingMatch{Code: code}
		match.Categories = append(match.Categories, struct {
			Text string `json:"text"`
		}{Text: "Motors"}, struct {
			Text string `json:"text"`
		}{Text: string(id)})
		f.listings[id] = append(f.listings[id], match)
	}
}

func (f *fakeCatalog) ListCategories(context.Context) ([]domain.CategoryNode, error) {
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return f.categories, nil
}

func (f *fakeCatalog) GetListingPage(_ context.Context, categoryID domain.CategoryID, pageIndex, pageSize int) ([]client.ListingMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listingCalls = append(f.listingCalls, listingCall{Category: categoryID, PageIndex: pageIndex, PageSize: pageSize})
	if f.listingErr != nil {
		return nil, f.listingErr
	}

	all := f.listings[categoryID]
	start := (pageIndex - 1) * pageSize
	if start >= len(all) {
		return nil, nil
	}
	if f.oversizePages {
		return all[start:], nil
	}
	return all[start:min(start+pageSize, len(all))], nil
}

func (f *fakeCatalog) GetProductPage(_ context.Context, productID string) (string, error) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxInFlight.Load()
		if current <= seen || f.maxInFlight.CompareAndSwap(seen, current) {
			break
		}
	}
	if f.pageDelay > 0 {
		time.Sleep(f.pageDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.pageCalls[productID]++
	if errs := f.pageErrs[productID]; len(errs) > 0 {
		f.pageErrs[productID] = errs[1:]
		return "", errs[0]
	}

	page, ok := f.pages[productID]
	if !ok {
		return "", &client.StatusError{Code: http.StatusNotFound, Status: "404 Not Found", URL: "/catalog/" + productID}
	}
	return page, nil
}

func (f *fakeCatalog) ImageRequest(imageURI string) client.AssetRequest {
	return client.AssetRequest{Kind: domain.AssetKindImage, URL: "image:" + imageURI}
}

func (f *fakeCatalog) ManualRequest(productID string) client.AssetRequest {
	return client.AssetRequest{Kind: domain.AssetKindManual, URL: "manual:" + productID}
}

func (f *fakeCatalog) DrawingRequest(ref domain.DrawingReference) client.AssetRequest {
	return client.AssetRequest{Kind: domain.AssetKindCAD, URL: "cad:" + ref.Name}
}

func (f *fakeCatalog) Download(_ context.Context, req client.AssetRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.assetCalls[req.URL]++
	if errs := f.assetErrs[req.URL]; len(errs) > 0 {
		f.assetErrs[req.URL] = errs[1:]
		return nil, errs[0]
	}
	return []byte("content of " + req.URL), nil
}

func (f *fakeCatalog) pageCallCount(productID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageCalls[productID]
}

func (f *fakeCatalog) assetCallCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assetCalls[url]
}

func (f *fakeCatalog) assetCallsWithPrefix(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for url, n := range f.assetCalls {
		if strings.HasPrefix(url, prefix) {
			total += n
		}
	}
	return total
}

func statusErr(code int) error {
	return &client.StatusError{Code: code, Status: fmt.Sprintf("%d %s", code, http.StatusText(code))}
}

// productPage renders a detail page. An empty drawing omits the CAD reference.
func productPage(id, quantity, drawing string) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	fmt.Fprintf(&b, `<img class="product-image" data-src="/images/%s.jpg" />`, id)
	fmt.Fprintf(&b, `<div class="product-description">Motor %s</div>`, id)
	b.WriteString(`<div data-tab="specs"><span class="label">Enclosure</span><span class="value">TEFC</span></div>`)
	fmt.Fprintf(&b, `<div data-tab="parts"><table class="data-table"><tbody><tr><td>HW1001</td><td>Bearing</td><td>%s</td></tr></tbody></table></div>`, quantity)
	if drawing != "" {
		fmt.Fprintf(&b, `<script>var d = {&quot;value&quot;:&quot;%s&quot;,&quot;url&quot;:&quot;/dwg/%s&quot;};</script>`, drawing, drawing)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

type recordingQueue struct {
	mu    sync.Mutex
	tasks []task.Task
}

func (q *recordingQueue) AddTask(_ context.Context, t task.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return fmt.Sprintf("%d-0", len(q.tasks)), nil
}

func (q *recordingQueue) recorded() []task.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]task.Task(nil), q.tasks...)
}

type recordingRepository struct {
	mu      sync.Mutex
	records []*domain.ProductRecord
	fail    map[string]error
}

func (r *recordingRepository) SaveProduct(_ context.Context, record *domain.ProductRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[record.ProductID]; err != nil {
		return err
	}
	r.records = append(r.records, record)
	return nil
}
