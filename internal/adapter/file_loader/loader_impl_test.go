package file_loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body>hi</body></html>"), 0o600))

	page, err := NewFileLoader(path).Load(context.Background(), "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", page.URL)
	assert.Contains(t, page.HTML, "hi")

	_, err = NewFileLoader(filepath.Join(t.TempDir(), "missing.html")).Load(context.Background(), "https://example.com/")
	assert.Error(t, err)
}
