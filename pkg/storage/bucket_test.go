package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BucketStore {
	store, err := NewBucketStore(t.TempDir(), "http://localhost:8080/files",
		Limits{AllowedMIMEs: []string{"application/pdf"}, MaxSizeBytes: 50 * 1024 * 1024},
		Limits{AllowedMIMEs: []string{"image/png"}, MaxSizeBytes: 100 * 1024 * 1024},
	)
	require.NoError(t, err)
	return store
}

func TestBucketStoreValidate(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Validate(KindDocument, "application/pdf", 1024))
	require.Error(t, store.Validate(KindDocument, "application/x-msdownload", 1024))
	require.Error(t, store.Validate(KindDocument, "application/pdf", 51*1024*1024))
	require.NoError(t, store.Validate(KindMedia, "image/png", 99*1024*1024))
	require.Error(t, store.Validate(Kind("archive"), "application/zip", 1))
}

func TestBucketStoreUploadAndDelete(t *testing.T) {
	store := newTestStore(t)

	url, err := store.Upload("documentos", "requests/1_contract.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/files/documentos/requests/1_contract.pdf", url)

	require.NoError(t, store.Delete("documentos", "requests/1_contract.pdf"))
	// deleting again is not an error
	require.NoError(t, store.Delete("documentos", "requests/1_contract.pdf"))
}

func TestSanitizeFilename(t *testing.T) {
	require.Equal(t, "relat_rio_final.pdf", SanitizeFilename("relatório final.pdf"))
	require.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	require.Equal(t, "file", SanitizeFilename(""))
}

func TestObjectPathConvention(t *testing.T) {
	path := ObjectPath("requests", "histórico escolar.pdf")
	require.True(t, strings.HasPrefix(path, "requests/"))
	require.True(t, strings.HasSuffix(path, "_hist_rico_escolar.pdf"))
}
