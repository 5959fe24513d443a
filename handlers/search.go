package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"marquee/models"
	"marquee/services/search"
)

type searcher interface {
	Search(ctx context.Context, query string) []models.ContentItem
}

type liveSearch interface {
	SetQuery(query string)
	Record(query string, items []models.ContentItem)
	Query() string
	Results() search.Results
	SubscribeResults(ctx context.Context) <-chan search.Results
}

var (
	_ searcher   = (*search.Service)(nil)
	_ liveSearch = (*search.Live)(nil)
)

type SearchHandler struct {
	Service searcher
	Live    liveSearch
}

func NewSearchHandler(s searcher, live liveSearch) *SearchHandler {
	return &SearchHandler{Service: s, Live: live}
}

// Search answers ?q= immediately. The query becomes the current query.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results := h.Service.Search(r.Context(), query)
	if h.Live != nil {
		h.Live.Record(query, results)
	}
	writeJSON(w, http.StatusOK, results)
}

type queryRequest struct {
	Query string `json:"query"`
}

// SetQuery records the query as typed. The search runs once typing
// pauses; results arrive through Results and ResultsStream.
func (h *SearchHandler) SetQuery(w http.ResponseWriter, r *http.Request) {
	var body queryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.Live.SetQuery(body.Query)
	writeJSON(w, http.StatusAccepted, map[string]string{"query": body.Query})
}

func (h *SearchHandler) Results(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Live.Results())
}

func (h *SearchHandler) ResultsStream(w http.ResponseWriter, r *http.Request) {
	streamEvents(w, r, "results", h.Live.SubscribeResults(r.Context()))
}
