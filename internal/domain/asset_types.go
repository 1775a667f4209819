package domain

type AssetKind string

func (k AssetKind) String() string {
	return string(k)
}

const (
	AssetKindImage  AssetKind = "image"  // Product photo
	AssetKindManual AssetKind = "manual" // Info packet document
	AssetKindCAD    AssetKind = "cad"    // DWG drawing
)

var AssetKinds = []AssetKind{
	AssetKindImage,
	AssetKindManual,
	AssetKindCAD,
}

// Extension returns the file extension used when persisting an asset of this kind.
func (k AssetKind) Extension() string {
	switch k {
	case AssetKindImage:
		return "jpg"
	case AssetKindManual:
		return "pdf"
	case AssetKindCAD:
		return "dwg"
	default:
		return "bin"
	}
}
