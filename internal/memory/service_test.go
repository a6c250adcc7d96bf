package memory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entl/membox/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "membox-test.db"))
	require.NoError(t, err)
	svc := NewService(db)
	t.Cleanup(func() {
		_ = svc.Close()
		_ = db.Close()
	})
	return svc
}

func TestAddCommandSyncAssignsID(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddCommandSync(&storage.Command{Command: "docker ps", Status: "success"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "docker ps", got.Command)
}

func TestAddCommandSkipsBlankCommands(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddCommandSync(&storage.Command{Command: "   "})
	require.NoError(t, err)
	assert.Empty(t, id)

	recent, err := svc.GetRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestAddCommandSanitizesSecrets(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddCommandSync(&storage.Command{
		Command: "mysql -u root --password hunter2",
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotContains(t, got.Command, "hunter2")
	assert.Contains(t, got.Command, "****")
}

func TestGetBumpsRecallStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddCommandSync(&storage.Command{Command: "git status"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, id)
	require.NoError(t, err)
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, 1, got.UseCount) // first Get touched, second observed it
	assert.NotNil(t, got.LastUsed)
}

func TestGetMissingCommand(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddCommandSync(&storage.Command{Command: "ls"})
	require.NoError(t, err)

	existed, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestSearchRanksPrefixMatchesFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddCommandSync(&storage.Command{Command: "systemctl status docker"})
	require.NoError(t, err)
	_, err = svc.AddCommandSync(&storage.Command{Command: "docker compose up"})
	require.NoError(t, err)

	got, err := svc.Search(ctx, storage.QueryOptions{Query: "docker"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "docker compose up", got[0].Command)
}

func TestTagsAndCategories(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddCommandSync(&storage.Command{
		Command:  "docker ps",
		Tags:     []string{"docker"},
		Category: "containers",
	})
	require.NoError(t, err)

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docker"}, tags)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"containers"}, categories)
}
