package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entl/membox/internal/capture"
	"github.com/entl/membox/internal/memory"
	"github.com/entl/membox/internal/server"
	"github.com/entl/membox/internal/storage"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "membox-test.db"))
	require.NoError(t, err)
	svc := memory.NewService(db)
	ts := httptest.NewServer(server.New(svc, "test", "none").Router())
	t.Cleanup(func() {
		ts.Close()
		_ = svc.Close()
		_ = db.Close()
	})
	return New(ts.URL)
}

func TestSubmitAndGet(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	id, err := c.Submit(ctx, "docker ps", "list containers", capture.SubmitOptions{
		Workdir: "/home/dev",
		Status:  capture.StatusSuccess,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entry, err := c.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "docker ps", entry.Command)
	assert.Equal(t, "/home/dev", entry.Workdir)
	assert.Equal(t, "success", entry.Status)
}

func TestGetMissingReturnsNil(t *testing.T) {
	c := newTestClient(t)

	entry, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSubmitRejectedByValidation(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Submit(context.Background(), "   ", "", capture.SubmitOptions{Status: capture.StatusSuccess})
	require.Error(t, err)
}

func TestSearchAndFilters(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Add(ctx, server.SubmitCommandRequest{Command: "docker ps", Status: "success", Tags: []string{"docker"}})
	require.NoError(t, err)
	_, err = c.Add(ctx, server.SubmitCommandRequest{Command: "git push", Status: "failed"})
	require.NoError(t, err)

	entries, err := c.Search(ctx, SearchOptions{Query: "docker"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "docker ps", entries[0].Command)

	entries, err = c.Search(ctx, SearchOptions{Tags: []string{"docker"}})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDelete(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	id, err := c.Add(ctx, server.SubmitCommandRequest{Command: "ls"})
	require.NoError(t, err)

	existed, err := c.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = c.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestTagsCategoriesAndPing(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Add(ctx, server.SubmitCommandRequest{Command: "docker ps", Tags: []string{"docker"}, Category: "containers"})
	require.NoError(t, err)

	tags, err := c.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docker"}, tags)

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"containers"}, categories)

	require.NoError(t, c.Ping(ctx))
}
