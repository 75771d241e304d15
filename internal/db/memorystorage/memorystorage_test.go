package memorystorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/studydesk/internal/db/storage"
)

func TestMemoryStorage(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = theStorage.Read(ctx, "spotify")
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)

	body := []byte(`{"alice": "https://open.spotify.com/embed/track/abc"}`)
	require.NoError(t, theStorage.Write(ctx, "spotify", body))

	body[0] = '['
	got, err := theStorage.Read(ctx, "spotify")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), got[0], "stored bytes must not alias the caller's slice")

	assert.ErrorIs(t, theStorage.Write(ctx, "", body), storage.ErrInvalidDocumentName)
	assert.NoError(t, theStorage.Ping(ctx))
	assert.NoError(t, theStorage.Close())
}
