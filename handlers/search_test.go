package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marquee/models"
	"marquee/services/search"
)

type fakeSearcher struct {
	lastQuery string
	results   []models.ContentItem
}

func (f *fakeSearcher) Search(_ context.Context, query string) []models.ContentItem {
	f.lastQuery = query
	if strings.TrimSpace(query) == "" {
		return []models.ContentItem{}
	}
	return f.results
}

type fakeLive struct {
	query    string
	recorded []models.ContentItem
	results  search.Results
}

func (f *fakeLive) SetQuery(q string) { f.query = q }
func (f *fakeLive) Record(q string, items []models.ContentItem) {
	f.query = q
	f.recorded = items
}
func (f *fakeLive) Query() string           { return f.query }
func (f *fakeLive) Results() search.Results { return f.results }
func (f *fakeLive) SubscribeResults(ctx context.Context) <-chan search.Results {
	ch := make(chan search.Results, 1)
	ch <- f.results
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func TestSearchHandlerReturnsResultsAndRecordsQuery(t *testing.T) {
	svc := &fakeSearcher{results: []models.ContentItem{{ID: 155, Title: "The Dark Knight"}}}
	live := &fakeLive{}
	h := NewSearchHandler(svc, live)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=dark+knight", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dark knight", svc.lastQuery)
	assert.Equal(t, "dark knight", live.query)
	require.Len(t, live.recorded, 1)

	var got []models.ContentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "The Dark Knight", got[0].Title)
}

func TestSearchHandlerEmptyQueryReturnsEmptyArray(t *testing.T) {
	h := NewSearchHandler(&fakeSearcher{}, &fakeLive{})

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSearchHandlerSetQuery(t *testing.T) {
	live := &fakeLive{}
	h := NewSearchHandler(&fakeSearcher{}, live)

	rec := httptest.NewRecorder()
	h.SetQuery(rec, httptest.NewRequest(http.MethodPost, "/api/search/query", strings.NewReader(`{"query":"matrix"}`)))
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "matrix", live.query)

	rec = httptest.NewRecorder()
	h.SetQuery(rec, httptest.NewRequest(http.MethodPost, "/api/search/query", strings.NewReader(`nope`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandlerResults(t *testing.T) {
	live := &fakeLive{results: search.Results{Query: "heat", Items: []models.ContentItem{{ID: 949, Title: "Heat"}}}}
	h := NewSearchHandler(&fakeSearcher{}, live)

	rec := httptest.NewRecorder()
	h.Results(rec, httptest.NewRequest(http.MethodGet, "/api/search/results", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got search.Results
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "heat", got.Query)
	assert.Equal(t, "Heat", got.Items[0].Title)
}
