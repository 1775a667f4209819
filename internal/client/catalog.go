package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"catalog/harvester/internal/config"
	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/proxy"
)

const categoryListPageSize = 10

type CatalogClient interface {
	ListCategories(ctx context.Context) ([]domain.CategoryNode, error)
	GetListingPage(ctx context.Context, categoryID domain.CategoryID, pageIndex, pageSize int) ([]ListingMatch, error)
	GetProductPage(ctx context.Context, productID string) (string, error)

	ImageRequest(imageURI string) AssetRequest
	ManualRequest(productID string) AssetRequest
	DrawingRequest(ref domain.DrawingReference) AssetRequest
	Download(ctx context.Context, req AssetRequest) ([]byte, error)
}

// ListingMatch is one product entry of a listing page.
type ListingMatch struct {
	Code       string `json:"code"`
	Categories []struct {
		Text string `json:"text"`
	} `json:"categories"`
}

// Labels returns the category labels of the match, outermost first.
func (m ListingMatch) Labels() domain.CategoryLabels {
	labels := make(domain.CategoryLabels, 0, len(m.Categories))
	for _, c := range m.Categories {
		labels = append(labels, c.Text)
	}
	return labels
}

type listingResponse struct {
	Category struct {
		Children []domain.CategoryNode `json:"children"`
	} `json:"category"`
	Results struct {
		Matches []ListingMatch `json:"matches"`
	} `json:"results"`
}

// AssetRequest is a prepared asset download.
type AssetRequest struct {
	Kind  domain.AssetKind
	URL   string
	Query url.Values
}

func (r AssetRequest) String() string {
	if len(r.Query) == 0 {
		return r.URL
	}
	return r.URL + "?" + r.Query.Encode()
}

type catalogClient struct {
	rl           ratelimit.Limiter
	config       config.CatalogConfig
	baseURL      string
	httpClient   *resty.Client
	pageTimeout  time.Duration
	assetTimeout time.Duration
}

func NewCatalogClient(cfg config.CatalogConfig, proxySupplier proxy.ProxySupplier) CatalogClient {
	client := resty.New().
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &catalogClient{
		rl:           rl,
		config:       cfg,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   client,
		pageTimeout:  cfg.PageTimeout,
		assetTimeout: cfg.AssetTimeout,
	}
}

func (c *catalogClient) ListCategories(ctx context.Context) ([]domain.CategoryNode, error) {
	query := url.Values{}
	query.Add("include", "results")
	query.Add("include", "filters")
	query.Add("include", "category")
	query.Set("language", c.config.Language)
	query.Set("pageSize", strconv.Itoa(categoryListPageSize))
	query.Set("category", c.config.RootCategory)

	listing, err := c.getListing(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category list: %w", err)
	}

	log.Debugf("Category list returned %d children", len(listing.Category.Children))
	return listing.Category.Children, nil
}

func (c *catalogClient) GetListingPage(ctx context.Context, categoryID domain.CategoryID, pageIndex, pageSize int) ([]ListingMatch, error) {
	query := url.Values{}
	query.Add("include", "category")
	query.Add("include", "results")
	query.Set("language", c.config.Language)
	query.Set("pageSize", strconv.Itoa(pageSize))
	query.Set("pageIndex", strconv.Itoa(pageIndex))
	query.Set("category", categoryID.String())

	listing, err := c.getListing(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %d of category %s: %w", pageIndex, categoryID, err)
	}

	log.Debugf("Fetched page %d of category %s with %d matches", pageIndex, categoryID, len(listing.Results.Matches))
	return listing.Results.Matches, nil
}

func (c *catalogClient) getListing(ctx context.Context, query url.Values) (*listingResponse, error) {
	body, err := c.get(ctx, c.pageTimeout, c.baseURL+"/api/products", query)
	if err != nil {
		return nil, err
	}

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing response: %w", err)
	}

	return &listing, nil
}

func (c *catalogClient) GetProductPage(ctx context.Context, productID string) (string, error) {
	body, err := c.get(ctx, c.pageTimeout, fmt.Sprintf("%s/catalog/%s", c.baseURL, url.PathEscape(productID)), nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *catalogClient) ImageRequest(imageURI string) AssetRequest {
	target := imageURI
	if !strings.HasPrefix(imageURI, "http://") && !strings.HasPrefix(imageURI, "https://") {
		target = c.baseURL + imageURI
	}
	return AssetRequest{Kind: domain.AssetKindImage, URL: target}
}

func (c *catalogClient) ManualRequest(productID string) AssetRequest {
	return AssetRequest{
		Kind: domain.AssetKindManual,
		URL:  fmt.Sprintf("%s/api/products/%s/infopacket", c.baseURL, url.PathEscape(productID)),
	}
}

func (c *catalogClient) DrawingRequest(ref domain.DrawingReference) AssetRequest {
	return AssetRequest{
		Kind: domain.AssetKindCAD,
		URL:  c.baseURL + "/api/products/download/",
		Query: url.Values{
			"value": []string{ref.Name},
			"url":   []string{ref.URL},
		},
	}
}

func (c *catalogClient) Download(ctx context.Context, req AssetRequest) ([]byte, error) {
	return c.get(ctx, c.assetTimeout, req.URL, req.Query)
}

// get performs a single GET bounded by its own timeout and returns the body of a
// 2xx response.
func (c *catalogClient) get(ctx context.Context, timeout time.Duration, target string, query url.Values) ([]byte, error) {
	c.rl.Take()

	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := c.httpClient.R().SetContext(reqCtx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(target)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch URL %s: %w", target, err)
	}

	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Status: resp.Status(), URL: target}
	}

	return resp.Bytes(), nil
}
