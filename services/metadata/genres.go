package metadata

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"marquee/models"
)

// fallbackGenres is used until the remote genre lists load, and whenever
// they cannot be fetched.
var fallbackGenres = []models.Genre{
	{ID: 28, Name: "Action"},
	{ID: 35, Name: "Comedy"},
	{ID: 18, Name: "Drama"},
	{ID: 27, Name: "Horror"},
	{ID: 878, Name: "Science Fiction"},
	{ID: 53, Name: "Thriller"},
	{ID: 10749, Name: "Romance"},
}

// GenreSource lists the genres known to the catalog.
type GenreSource interface {
	Genres(ctx context.Context, mediaType models.ContentType) ([]models.Genre, error)
}

// GenreTable resolves genre ids to names. It starts with a built-in table
// and is replaced by the catalog's movie and show lists once they load.
type GenreTable struct {
	mu     sync.RWMutex
	names  map[int64]string
	loaded bool
	group  singleflight.Group
}

func NewGenreTable() *GenreTable {
	g := &GenreTable{names: make(map[int64]string, len(fallbackGenres))}
	for _, genre := range fallbackGenres {
		g.names[genre.ID] = genre.Name
	}
	return g
}

// Loaded reports whether the remote lists have been applied.
func (g *GenreTable) Loaded() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loaded
}

// Load fetches the movie and show genre lists and replaces the table.
// Concurrent callers share one fetch. When both lists fail the current
// table is kept and the error returned.
func (g *GenreTable) Load(ctx context.Context, src GenreSource) error {
	_, err, _ := g.group.Do("load", func() (any, error) {
		names := make(map[int64]string, 32)
		var errs []error
		for _, mediaType := range []models.ContentType{models.ContentTypeMovie, models.ContentTypeSeries} {
			genres, err := src.Genres(ctx, mediaType)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			for _, genre := range genres {
				if genre.ID != 0 && genre.Name != "" {
					names[genre.ID] = genre.Name
				}
			}
		}
		if len(names) == 0 {
			if len(errs) == 0 {
				errs = append(errs, errors.New("catalog returned no genres"))
			}
			return nil, errors.Join(errs...)
		}
		for _, genre := range fallbackGenres {
			if _, ok := names[genre.ID]; !ok {
				names[genre.ID] = genre.Name
			}
		}

		g.mu.Lock()
		g.names = names
		g.loaded = true
		g.mu.Unlock()
		log.Printf("[genres] loaded %d genres", len(names))
		return nil, nil
	})
	return err
}

// EnsureLoaded loads the remote lists once. Failures are logged and the
// built-in table stays in use; the next call tries again.
func (g *GenreTable) EnsureLoaded(ctx context.Context, src GenreSource) {
	if g.Loaded() {
		return
	}
	if err := g.Load(ctx, src); err != nil {
		log.Printf("[genres] using built-in genre table: %v", err)
	}
}

// Resolve maps ids to names in order, skipping unknown ids.
func (g *GenreTable) Resolve(ids []int64) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := g.names[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
