package models

import (
	"math"
	"slices"
)

// Normalized catalog structures shared by the aggregator, search and watchlist.

type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// SeriesIDOffset separates series ids from movie ids. The catalog numbers
// movies and shows independently, so a show's content id is its catalog id
// plus this offset.
const SeriesIDOffset int64 = 1_000_000_000

// DefaultGenre is used when the source record carries no resolvable genre.
const DefaultGenre = "Drama"

type ContentItem struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Thumbnail      string      `json:"thumbnail"`
	Backdrop       string      `json:"backdrop"`
	TrailerURL     string      `json:"trailerUrl,omitempty"`
	Genre          []string    `json:"genre"`
	Rating         float64     `json:"rating"`
	Year           int         `json:"year"`
	Duration       string      `json:"duration"`
	Type           ContentType `json:"type"`
	Trending       bool        `json:"trending,omitempty"`
	Featured       bool        `json:"featured,omitempty"`
	MaturityRating string      `json:"maturityRating"`
	Cast           []string    `json:"cast"`
	Director       string      `json:"director"`
	ReleaseDate    string      `json:"releaseDate,omitempty"`
	OriginalTitle  string      `json:"originalTitle,omitempty"`
	Popularity     float64     `json:"popularity,omitempty"`
}

// Clone returns a copy that shares no slices with the receiver.
func (c ContentItem) Clone() ContentItem {
	c.Genre = slices.Clone(c.Genre)
	c.Cast = slices.Clone(c.Cast)
	return c
}

// Category is a named, ordered row of content.
type Category struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Content []ContentItem `json:"content"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RoundRating clamps a score to [0,10] and rounds it to one decimal.
func RoundRating(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 10 {
		v = 10
	}
	return math.Round(v*10) / 10
}

// ContentID maps a catalog id of the given type onto the shared id space.
func ContentID(mediaType ContentType, catalogID int64) int64 {
	if mediaType == ContentTypeSeries {
		return catalogID + SeriesIDOffset
	}
	return catalogID
}

// SplitContentID reverses ContentID.
func SplitContentID(id int64) (ContentType, int64) {
	if id >= SeriesIDOffset {
		return ContentTypeSeries, id - SeriesIDOffset
	}
	return ContentTypeMovie, id
}
