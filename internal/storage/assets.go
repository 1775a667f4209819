// Package storage writes downloaded product assets to the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalog/harvester/internal/domain"
)

// AssetStore lays assets out as <root>/<productID>/<productID>.<ext>.
type AssetStore struct {
	root string
}

func NewAssetStore(root string) (*AssetStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("asset directory is required")
	}
	return &AssetStore{root: root}, nil
}

// Path returns the deterministic destination of an asset.
func (s *AssetStore) Path(productID string, kind domain.AssetKind) string {
	dir := s.dir(productID)
	return filepath.Join(dir, fmt.Sprintf("%s.%s", filepath.Base(dir), kind.Extension()))
}

// EnsureDir creates the product's asset directory. Calling it again is a no-op.
func (s *AssetStore) EnsureDir(productID string) error {
	dir := s.dir(productID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create asset dir %s: %w", dir, err)
	}
	return nil
}

// Write stores the asset body, replacing any previous file at the same path.
func (s *AssetStore) Write(productID string, kind domain.AssetKind, data []byte) (string, error) {
	if err := s.EnsureDir(productID); err != nil {
		return "", err
	}

	target := s.Path(productID, kind)
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s asset to %s: %w", kind, target, err)
	}

	return target, nil
}

// dir keeps product identifiers from escaping the asset root.
func (s *AssetStore) dir(productID string) string {
	name := filepath.Base(filepath.Clean("/" + productID))
	if name == "/" || name == "." {
		name = "_"
	}
	return filepath.Join(s.root, name)
}
