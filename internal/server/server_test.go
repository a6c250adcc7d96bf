package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entl/membox/internal/memory"
	"github.com/entl/membox/internal/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "membox-test.db"))
	require.NoError(t, err)
	svc := memory.NewService(db)
	ts := httptest.NewServer(New(svc, "test", "none").Router())
	t.Cleanup(func() {
		ts.Close()
		_ = svc.Close()
		_ = db.Close()
	})
	return ts
}

func submitCommand(t *testing.T, ts *httptest.Server, req SubmitCommandRequest) string {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/commands", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created SubmitCommandResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestSubmitAndGetCommand(t *testing.T) {
	ts := newTestServer(t)

	id := submitCommand(t, ts, SubmitCommandRequest{
		Command:     "docker ps",
		Description: "list containers",
		Workdir:     "/home/dev",
		Status:      "success",
		Tags:        []string{"docker"},
	})

	resp, err := http.Get(ts.URL + "/api/commands/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entry CommandEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entry))
	assert.Equal(t, "docker ps", entry.Command)
	assert.Equal(t, "list containers", entry.Description)
	assert.Equal(t, []string{"docker"}, entry.Tags)
}

func TestSubmitCommandValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name  string
		req   SubmitCommandRequest
		field string
	}{
		{
			name:  "missing command",
			req:   SubmitCommandRequest{Status: "success"},
			field: "command",
		},
		{
			name:  "bad status",
			req:   SubmitCommandRequest{Command: "ls", Status: "maybe"},
			field: "status",
		},
		{
			name:  "comma in tag",
			req:   SubmitCommandRequest{Command: "ls", Tags: []string{"a,b"}},
			field: "tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.req)
			require.NoError(t, err)

			resp, err := http.Post(ts.URL+"/api/commands", "application/json", bytes.NewReader(body))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var verr ValidationError
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&verr))
			require.NotEmpty(t, verr.Violations)
			assert.Equal(t, tt.field, verr.Violations[0].Field)
		})
	}
}

func TestListCommandsWithFilters(t *testing.T) {
	ts := newTestServer(t)

	submitCommand(t, ts, SubmitCommandRequest{Command: "docker ps", Status: "success"})
	submitCommand(t, ts, SubmitCommandRequest{Command: "docker logs app", Status: "failed"})
	submitCommand(t, ts, SubmitCommandRequest{Command: "git status", Status: "success"})

	resp, err := http.Get(ts.URL + "/api/commands?q=docker&status=failed")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list CommandListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Commands, 1)
	assert.Equal(t, "docker logs app", list.Commands[0].Command)
}

func TestDeleteCommand(t *testing.T) {
	ts := newTestServer(t)
	id := submitCommand(t, ts, SubmitCommandRequest{Command: "ls"})

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/commands/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetCommandNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/commands/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTagsAndCategoriesEndpoints(t *testing.T) {
	ts := newTestServer(t)

	submitCommand(t, ts, SubmitCommandRequest{Command: "docker ps", Tags: []string{"docker"}, Category: "containers"})

	resp, err := http.Get(ts.URL + "/api/tags")
	require.NoError(t, err)
	defer resp.Body.Close()
	var tags TagsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tags))
	assert.Equal(t, []string{"docker"}, tags.Tags)

	resp, err = http.Get(ts.URL + "/api/categories")
	require.NoError(t, err)
	defer resp.Body.Close()
	var categories CategoriesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	assert.Equal(t, []string{"containers"}, categories.Categories)
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	var version VersionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&version))
	assert.Equal(t, "test", version.Version)
}
