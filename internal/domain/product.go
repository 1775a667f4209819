package domain

// DrawingReference is the CAD file name and source URL embedded in a detail page.
type DrawingReference struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type FetchedPage struct {
	ProductID    string `json:"product_id"`
	CategoryPath string `json:"name"`
	RawContent   string `json:"-"`
}

// AssetBundle holds the local paths of downloaded assets. A nil path means the
// asset is absent, which is a valid outcome.
type AssetBundle struct {
	Manual *string `json:"manual"`
	CAD    *string `json:"cad"`
	Image  *string `json:"image"`
}

// Set stores the path of a downloaded asset of the given kind.
func (b *AssetBundle) Set(kind AssetKind, path *string) {
	switch kind {
	case AssetKindImage:
		b.Image = path
	case AssetKindManual:
		b.Manual = path
	case AssetKindCAD:
		b.CAD = path
	}
}

type ProductRecord struct {
	ProductID   string            `json:"product_id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Specs       map[string]string `json:"specs"`
	BOM         []PartLine        `json:"bom"`
	Assets      AssetBundle       `json:"assets"`
}
