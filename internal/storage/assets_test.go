package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/harvester/internal/domain"
)

func TestNewAssetStoreRequiresRoot(t *testing.T) {
	_, err := NewAssetStore(" ")
	assert.Error(t, err)
}

func TestWriteIsDeterministicAndOverwrites(t *testing.T) {
	root := t.TempDir()
	store, err := NewAssetStore(root)
	require.NoError(t, err)

	first, err := store.Write("CEM3546T", domain.AssetKindManual, []byte("v1"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "CEM3546T", "CEM3546T.pdf"), first)

	second, err := store.Write("CEM3546T", domain.AssetKindManual, []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	entries, err := os.ReadDir(filepath.Join(root, "CEM3546T"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEnsureDirIsIdempotent(t *testing.T) {
	root := t.TempDir()
	store, err := NewAssetStore(root)
	require.NoError(t, err)

	require.NoError(t, store.EnsureDir("CEM3546T"))
	require.NoError(t, store.EnsureDir("CEM3546T"))

	info, err := os.Stat(filepath.Join(root, "CEM3546T"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPathStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewAssetStore(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "passwd", "passwd.jpg"), store.Path("../../etc/passwd", domain.AssetKindImage))
	assert.Equal(t, filepath.Join(root, "_", "_.dwg"), store.Path("", domain.AssetKindCAD))
}
