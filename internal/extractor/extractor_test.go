package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/harvester/internal/domain"
)

const productPage = `<html><body>
<img class="product-image" data-src="/images/p/CEM3546T.jpg" />
<div class="product-description">
  1HP, 1760RPM, 3PH, 60HZ, 143TC
</div>
<div data-tab="specs">
  <div><span class="label"> Catalog Number </span><span class="value">CEM3546T</span></div>
  <div><span class="label">Enclosure</span><span class="value"> TEFC </span></div>
  <div><span class="label">Orphan</span></div>
</div>
<div data-tab="parts">
  <table class="data-table">
    <thead><tr><th>Part</th><th>Description</th><th>Qty</th></tr></thead>
    <tbody>
      <tr><td>HW1001A01</td><td>Bearing</td><td>2 EA</td></tr>
      <tr><td>34FN3002</td><td>Fan</td><td>1.00</td></tr>
      <tr><td>short</td><td>row</td></tr>
    </tbody>
  </table>
</div>
<script>
var drawings = [{&quot;value&quot;:&quot;35A.dwg&quot;,&quot;url&quot;:&quot;/docs/dwg/35A.dwg&quot;}];
</script>
</body></html>`

func TestSpecs(t *testing.T) {
	specs := New().Specs(productPage)
	assert.Equal(t, map[string]string{
		"Catalog Number": "CEM3546T",
		"Enclosure":      "TEFC",
	}, specs)
}

func TestParts(t *testing.T) {
	parts := New().Parts(productPage)
	assert.Equal(t, []domain.PartRow{
		{PartNumber: "HW1001A01", Description: "Bearing", Quantity: "2 EA"},
		{PartNumber: "34FN3002", Description: "Fan", Quantity: "1.00"},
	}, parts)
}

func TestDescription(t *testing.T) {
	description := New().Description(productPage)
	require.NotNil(t, description)
	assert.Equal(t, "1HP, 1760RPM, 3PH, 60HZ, 143TC", *description)
}

func TestImageReference(t *testing.T) {
	assert.Equal(t, "/images/p/CEM3546T.jpg", New().ImageReference(productPage))
}

func TestDrawingReferenceFromEscapedMarkup(t *testing.T) {
	ref := New().DrawingReference(productPage)
	require.NotNil(t, ref)
	assert.Equal(t, domain.DrawingReference{Name: "35A.dwg", URL: "/docs/dwg/35A.dwg"}, *ref)
}

func TestMissingMarkupYieldsEmptyResults(t *testing.T) {
	e := New()
	page := `<html><body><p>nothing here</p></body></html>`

	assert.Empty(t, e.Specs(page))
	assert.NotNil(t, e.Specs(page))
	assert.Empty(t, e.Parts(page))
	assert.Nil(t, e.Description(page))
	assert.Equal(t, "", e.ImageReference(page))
	assert.Nil(t, e.DrawingReference(page))
}

func TestDrawingReferenceRequiresBothParts(t *testing.T) {
	assert.Nil(t, New().DrawingReference(`{"value": "35A.DWG"}`))
	assert.Nil(t, New().DrawingReference(`{"url": "/docs/35A.DWG"}`))
}

func TestExtractMatchesFieldMethods(t *testing.T) {
	e := New()
	fields := e.Extract(productPage)

	assert.Equal(t, e.Specs(productPage), fields.Specs)
	assert.Equal(t, e.Parts(productPage), fields.Parts)
	assert.Equal(t, e.Description(productPage), fields.Description)
	assert.Equal(t, e.ImageReference(productPage), fields.Image)
	assert.Equal(t, e.DrawingReference(productPage), fields.Drawing)
}

func TestExtractEmptyPage(t *testing.T) {
	fields := New().Extract(`<html><body></body></html>`)

	assert.NotNil(t, fields.Specs)
	assert.Empty(t, fields.Parts)
	assert.Nil(t, fields.Description)
	assert.Empty(t, fields.Image)
	assert.Nil(t, fields.Drawing)
}
