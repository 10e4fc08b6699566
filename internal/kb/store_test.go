package kb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStoreCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "Reset your VPN password", "Open the portal and press **reset**.")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Reset your VPN password", created.Title)

	article, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, article.Title)
	assert.Contains(t, article.Content, "press **reset**")
	assert.Contains(t, article.HTML, "<h1>Reset your VPN password</h1>")
	assert.Contains(t, article.HTML, "<strong>reset</strong>")
}

func TestStoreCreateValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "  ", "body")
	assertKBStatus(t, err, 400)
	_, err = store.Create(ctx, "title", "   ")
	assertKBStatus(t, err, 400)
}

func TestStoreListOmitsBodies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "First", "one")
	require.NoError(t, err)
	_, err = store.Create(ctx, "Second", "two")
	require.NoError(t, err)

	articles, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	for _, article := range articles {
		assert.NotEmpty(t, article.Title)
		assert.Empty(t, article.Content)
		assert.Empty(t, article.HTML)
	}
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "Temp", "gone soon")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.Get(ctx, created.ID)
	assertKBStatus(t, err, 404)
	assertKBStatus(t, store.Delete(ctx, created.ID), 404)
}

func TestStoreRejectsNonUUIDIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Path fragments must never reach the filesystem.
	_, err := store.Get(ctx, "../../etc/passwd")
	assertKBStatus(t, err, 404)
	assertKBStatus(t, store.Delete(ctx, "../escape"), 404)
}

func assertKBStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, status, domainErr.HTTPStatus)
}
