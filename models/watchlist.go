package models

import (
	"strings"
	"time"
)

// Page is the section of the front end currently on screen.
type Page string

const (
	PageHome      Page = "home"
	PageMovies    Page = "movies"
	PageTV        Page = "tv"
	PageWatchlist Page = "watchlist"
)

// ParsePage maps user input onto a known page. Unknown values report false.
func ParsePage(value string) (Page, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "home":
		return PageHome, true
	case "movies", "movie":
		return PageMovies, true
	case "tv", "series", "shows":
		return PageTV, true
	case "watchlist", "my-list", "mylist":
		return PageWatchlist, true
	default:
		return "", false
	}
}

// WatchlistSnapshot is one immutable state of the watchlist as delivered to
// subscribers.
type WatchlistSnapshot struct {
	Items     []ContentItem `json:"items"`
	Version   uint64        `json:"version"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Contains reports whether an item with the given id is in the snapshot.
func (s WatchlistSnapshot) Contains(id int64) bool {
	for _, item := range s.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}
