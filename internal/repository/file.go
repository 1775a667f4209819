package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"catalog/harvester/internal/domain"
)

type fileRepository struct {
	dir string
}

// NewFileRepository stores one indented JSON document per product, named
// <productID>.json, under dir.
func NewFileRepository(dir string) (ProductRepository, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}
	return &fileRepository{dir: dir}, nil
}

func (r *fileRepository) SaveProduct(ctx context.Context, record *domain.ProductRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("failed to encode product %s: %w", record.ProductID, err)
	}

	target := r.path(record.ProductID)
	if err := os.WriteFile(target, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write product %s to %s: %w", record.ProductID, target, err)
	}

	return nil
}

func (r *fileRepository) path(productID string) string {
	name := filepath.Base(filepath.Clean("/" + productID))
	if name == "/" || name == "." {
		name = "_"
	}
	return filepath.Join(r.dir, name+".json")
}
