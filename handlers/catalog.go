package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"marquee/models"
	"marquee/services/catalog"
	"marquee/utils/observable"
)

//go:generate mockgen -source=catalog.go -destination=mock_catalog_test.go -package=handlers

// CatalogService serves the browse rows. Implementations never fail; they
// fall back to built-in content instead.
type CatalogService interface {
	FetchCategories(ctx context.Context) []models.Category
	FetchFeatured(ctx context.Context) models.ContentItem
	FetchItemDetails(ctx context.Context, id int64) models.ContentItem
	FetchMovies(ctx context.Context) []models.Category
	FetchSeries(ctx context.Context) []models.Category
	PageContent(ctx context.Context, page models.Page) []models.Category
}

var _ CatalogService = (*catalog.Service)(nil)

type CatalogHandler struct {
	Service CatalogService
	page    *observable.Value[models.Page]
}

func NewCatalogHandler(s CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: s, page: observable.New(models.PageHome)}
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.FetchCategories(r.Context()))
}

func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.FetchFeatured(r.Context()))
}

func (h *CatalogHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.Service.FetchItemDetails(r.Context(), id))
}

func (h *CatalogHandler) Movies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.FetchMovies(r.Context()))
}

func (h *CatalogHandler) Series(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.FetchSeries(r.Context()))
}

// Page serves the rows for {page} and makes it the current page.
func (h *CatalogHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, ok := models.ParsePage(mux.Vars(r)["page"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown page")
		return
	}
	h.page.Set(page)
	writeJSON(w, http.StatusOK, h.Service.PageContent(r.Context(), page))
}

// CurrentPage reports the page most recently requested.
func (h *CatalogHandler) CurrentPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]models.Page{"page": h.page.Get()})
}

// PageStream pushes the current page as Server-Sent Events.
func (h *CatalogHandler) PageStream(w http.ResponseWriter, r *http.Request) {
	streamEvents(w, r, "page", h.page.Subscribe(r.Context()))
}
