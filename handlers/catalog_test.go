package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"marquee/models"
)

func TestCatalogCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockCatalogService(ctrl)
	svc.EXPECT().FetchCategories(gomock.Any()).Return([]models.Category{
		{ID: "trending", Name: "Trending Now", Content: []models.ContentItem{{ID: 155, Title: "The Dark Knight"}}},
	})

	h := NewCatalogHandler(svc)
	rec := httptest.NewRecorder()
	h.Categories(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got []models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "The Dark Knight", got[0].Content[0].Title)
}

func TestCatalogFeaturedAlwaysOK(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockCatalogService(ctrl)
	svc.EXPECT().FetchFeatured(gomock.Any()).Return(models.ContentItem{ID: 1, Title: "Featured Movie", Featured: true})

	rec := httptest.NewRecorder()
	NewCatalogHandler(svc).Featured(rec, httptest.NewRequest(http.MethodGet, "/api/featured", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.ContentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Featured Movie", got.Title)
}

func TestCatalogDetailsParsesID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockCatalogService(ctrl)
	svc.EXPECT().FetchItemDetails(gomock.Any(), int64(27205)).Return(models.ContentItem{ID: 27205, Title: "Inception"})

	h := NewCatalogHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/api/content/27205", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "27205"})
	rec := httptest.NewRecorder()
	h.Details(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Inception")
}

func TestCatalogDetailsRejectsBadID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockCatalogService(ctrl)

	h := NewCatalogHandler(svc)
	for _, raw := range []string{"abc", "0", "-4"} {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/content/"+raw, nil), map[string]string{"id": raw})
		rec := httptest.NewRecorder()
		h.Details(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
	}
}

func TestCatalogPageSetsCurrentPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewMockCatalogService(ctrl)
	svc.EXPECT().PageContent(gomock.Any(), models.PageTV).Return([]models.Category{{ID: "popular-series", Name: "Popular TV Shows"}})

	h := NewCatalogHandler(svc)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/pages/series", nil), map[string]string{"page": "series"})
	rec := httptest.NewRecorder()
	h.Page(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.CurrentPage(rec, httptest.NewRequest(http.MethodGet, "/api/pages/current", nil))
	assert.JSONEq(t, `{"page":"tv"}`, rec.Body.String())
}

func TestCatalogPageUnknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewCatalogHandler(NewMockCatalogService(ctrl))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/pages/admin", nil), map[string]string{"page": "admin"})
	rec := httptest.NewRecorder()
	h.Page(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogPageStreamSendsCurrentPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewCatalogHandler(NewMockCatalogService(ctrl))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/pages/stream", nil).WithContext(ctx)
	rec := newStreamRecorder()

	done := make(chan struct{})
	go func() {
		h.PageStream(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return rec.contains(`data: "home"`) }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}
