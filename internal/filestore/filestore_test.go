package filestore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/nextstep/internal/config"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	require.Equal(t, "local", store.Type())

	ctx := context.Background()
	data := []byte("%PDF-1.4 resume")
	require.NoError(t, store.Save(ctx, "user-1/abc_resume.pdf", bytes.NewReader(data), int64(len(data))))

	rc, err := store.Open(ctx, "user-1/abc_resume.pdf")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	err = store.Save(context.Background(), "../escape.pdf", bytes.NewReader(nil), 0)
	require.Error(t, err)
	_, err = store.Open(context.Background(), "")
	require.Error(t, err)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(config.FileStoreConfig{Type: "ftp"})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{}})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "s3", Data: map[string]interface{}{"bucket": "b"}})
	require.Error(t, err)
}

func TestCleanKey(t *testing.T) {
	key, err := cleanKey(`/u1\a/./b.pdf`)
	require.NoError(t, err)
	require.Equal(t, "u1/a/b.pdf", key)
	_, err = cleanKey("a/../../b")
	require.Error(t, err)
}

func TestNormalizeEndpoint(t *testing.T) {
	require.Equal(t, "https://minio.local:9000", normalizeEndpoint("minio.local:9000/"))
	require.Equal(t, "http://127.0.0.1:9000", normalizeEndpoint("http://127.0.0.1:9000"))
}
