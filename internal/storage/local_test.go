package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adlens/internal/config"
)

func TestLocal_PutGetDeletePrefix(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir(), "http://cdn.test/media/")
	require.NoError(t, err)

	url, err := store.Put(ctx, "analyses/7/thumbnail.jpg", strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/media/analyses/7/thumbnail.jpg", url)

	_, err = store.Put(ctx, "analyses/7/frames/0.jpg", strings.NewReader("f0"), 2, "image/jpeg")
	require.NoError(t, err)
	_, err = store.Put(ctx, "analyses/70/source.mp4", strings.NewReader("keep"), 4, "video/mp4")
	require.NoError(t, err)

	rc, err := store.Get(ctx, "analyses/7/thumbnail.jpg")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, store.DeletePrefix(ctx, "analyses/7/"))

	_, err = store.Get(ctx, "analyses/7/frames/0.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	rc, err = store.Get(ctx, "analyses/70/source.mp4")
	require.NoError(t, err)
	rc.Close()
}

func TestLocal_KeysStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocal(root, "")
	require.NoError(t, err)

	_, err = store.Put(ctx, "../../escape.txt", strings.NewReader("x"), 1, "")
	require.NoError(t, err)

	rc, err := store.Get(ctx, "escape.txt")
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "http://localhost:8080/media/a.jpg", store.URL("a.jpg"))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), configWithDriver("ftp"))
	assert.Error(t, err)
}

func configWithDriver(driver string) config.StorageConfig {
	return config.StorageConfig{Driver: driver}
}
