package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dgb/datatable"
	"dgb/internal/source"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	d, err := source.FromSource("people", datatable.NewRecordSourceFromMaps([]map[string]interface{}{
		{"name": "ada", "age": 36},
		{"name": "grace", "age": 85},
		{"name": "linus", "age": 54},
	}, "name", "age"), 0)
	require.NoError(t, err)

	opts := datatable.DefaultOptions()
	opts.EmptyText = "nobody"
	srv := httptest.NewServer(newGridServer(d, nil, opts, zaptest.NewLogger(t)))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, query url.Values) (*http.Response, string) {
	t.Helper()
	u := srv.URL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServeGridCSV(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv, "/grid", url.Values{
		"format": {"csv"},
		"filter": {"age > 40"},
		"sort":   {"name"},
		"desc":   {"true"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "name,age\nlinus,54\ngrace,85\n", body)
}

func TestServeGridDefaultsToHTML(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<table")
	assert.Contains(t, body, `data-cell-key="0-1"`)
}

func TestServeGridJSON(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv, "/grid", url.Values{"format": {"json"}, "columns": {"name"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &records))
	require.Len(t, records, 3)
	assert.Equal(t, map[string]interface{}{"name": "ada"}, records[0])
}

func TestServeGridEmptyState(t *testing.T) {
	srv := newTestServer(t)

	_, body := get(t, srv, "/grid", url.Values{"format": {"csv"}, "filter": {"age > 100"}})
	assert.Equal(t, "name,age\nnobody\n", body)

	_, body = get(t, srv, "/grid", url.Values{
		"format":     {"csv"},
		"filter":     {"age > 100"},
		"empty_text": {"none"},
		"header":     {"false"},
	})
	assert.Equal(t, "none\n", body)
}

func TestServeGridBadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []url.Values{
		{"format": {"pdf"}},
		{"filter": {"height > 3"}},
		{"columns": {"name,missing"}},
		{"sort": {"missing"}},
		{"transpose": {"maybe"}},
	}
	for _, q := range tests {
		resp, _ := get(t, srv, "/grid", q)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q.Encode())
	}
}

func TestServeColumns(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv, "/columns", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cols []columnInfo
	require.NoError(t, json.Unmarshal([]byte(body), &cols))
	assert.Equal(t, []columnInfo{{Key: "name", Title: "name"}, {Key: "age", Title: "age"}}, cols)
}
