// Package extractor pulls structured product fields out of a catalog detail page.
//
// Every method is a pure function of the raw page: missing markup yields an
// empty or nil result, never an error.
package extractor

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/domain"
)

type PageExtractor interface {
	Specs(raw string) map[string]string
	Parts(raw string) []domain.PartRow
	Description(raw string) *string
	DrawingReference(raw string) *domain.DrawingReference
	ImageReference(raw string) string

	// Extract returns every field of the page from a single parse.
	Extract(raw string) *Extraction
}

// Extraction is the full set of fields read from one detail page.
type Extraction struct {
	Specs       map[string]string
	Parts       []domain.PartRow
	Description *string
	Image       string
	Drawing     *domain.DrawingReference
}

var (
	drawingNamePattern = regexp.MustCompile(`(?i)"value"\s*:\s*"([^"]+\.DWG)"`)
	drawingURLPattern  = regexp.MustCompile(`(?i)"url"\s*:\s*"([^"]+\.DWG)"`)
)

type pageExtractor struct{}

func New() PageExtractor {
	return &pageExtractor{}
}

func (e *pageExtractor) Extract(raw string) *Extraction {
	doc := parse(raw)
	return &Extraction{
		Specs:       specs(doc),
		Parts:       parts(doc),
		Description: description(doc),
		Image:       image(doc),
		Drawing:     e.DrawingReference(raw),
	}
}

func (e *pageExtractor) Specs(raw string) map[string]string {
	return specs(parse(raw))
}

func (e *pageExtractor) Parts(raw string) []domain.PartRow {
	return parts(parse(raw))
}

func (e *pageExtractor) Description(raw string) *string {
	return description(parse(raw))
}

func (e *pageExtractor) ImageReference(raw string) string {
	return image(parse(raw))
}

// DrawingReference scans the unescaped markup for the embedded DWG name and URL.
// Both must be present.
func (e *pageExtractor) DrawingReference(raw string) *domain.DrawingReference {
	unescaped := html.UnescapeString(raw)

	name := drawingNamePattern.FindStringSubmatch(unescaped)
	target := drawingURLPattern.FindStringSubmatch(unescaped)
	if len(name) < 2 || len(target) < 2 {
		return nil
	}

	return &domain.DrawingReference{
		Name: name[1],
		URL:  target[1],
	}
}

func specs(doc *goquery.Document) map[string]string {
	specs := make(map[string]string)
	if doc == nil {
		return specs
	}

	panel := doc.Find(`div[data-tab="specs"]`).First()
	labels := panel.Find("span.label")
	values := panel.Find("span.value")

	// Labels and values pair up positionally; extras on either side are ignored.
	n := min(labels.Length(), values.Length())
	for i := 0; i < n; i++ {
		specs[text(labels.Eq(i))] = text(values.Eq(i))
	}

	return specs
}

func parts(doc *goquery.Document) []domain.PartRow {
	rows := make([]domain.PartRow, 0)
	if doc == nil {
		return rows
	}

	doc.Find(`div[data-tab="parts"]`).First().
		Find("table.data-table tbody tr").
		Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() < 3 {
				return
			}
			rows = append(rows, domain.PartRow{
				PartNumber:  text(cells.Eq(0)),
				Description: text(cells.Eq(1)),
				Quantity:    text(cells.Eq(2)),
			})
		})

	return rows
}

func description(doc *goquery.Document) *string {
	if doc == nil {
		return nil
	}

	node := doc.Find("div.product-description").First()
	if node.Length() == 0 {
		return nil
	}

	description := text(node)
	return &description
}

func image(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	src, _ := doc.Find("img.product-image").First().Attr("data-src")
	return strings.TrimSpace(src)
}

func parse(raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		log.Warnf("Failed to parse HTML: %v", err)
		return nil
	}
	return doc
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
