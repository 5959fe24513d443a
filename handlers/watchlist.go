package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"marquee/models"
	"marquee/services/watchlist"
)

type watchlistService interface {
	List() []models.ContentItem
	Contains(id int64) bool
	Add(item models.ContentItem) (bool, error)
	Remove(id int64) (bool, error)
	Toggle(item models.ContentItem) (bool, error)
	Subscribe(ctx context.Context) <-chan models.WatchlistSnapshot
}

var _ watchlistService = (*watchlist.Service)(nil)

type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(s watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: s}
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.List())
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeItem(w, r)
	if !ok {
		return
	}
	added, err := h.Service.Add(item)
	if err != nil {
		writeWatchlistError(w, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"added": added, "inWatchlist": true})
}

func (h *WatchlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	item, ok := decodeItem(w, r)
	if !ok {
		return
	}
	saved, err := h.Service.Toggle(item)
	if err != nil {
		writeWatchlistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"inWatchlist": saved})
}

func (h *WatchlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"inWatchlist": h.Service.Contains(id)})
}

// Remove deletes the entry with {id}. Removing an absent id succeeds with
// "removed": false.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	removed, err := h.Service.Remove(id)
	if err != nil {
		writeWatchlistError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed, "inWatchlist": false})
}

// Stream pushes watchlist snapshots as Server-Sent Events, starting with
// the current one.
func (h *WatchlistHandler) Stream(w http.ResponseWriter, r *http.Request) {
	streamEvents(w, r, "watchlist", h.Service.Subscribe(r.Context()))
}

func decodeItem(w http.ResponseWriter, r *http.Request) (models.ContentItem, bool) {
	var item models.ContentItem
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return item, false
	}
	return item, true
}

func writeWatchlistError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, watchlist.ErrInvalidID), errors.Is(err, watchlist.ErrTitleMissing):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
