package catalog

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sourcegraph/conc"
	"golang.org/x/sync/singleflight"

	"marquee/models"
	"marquee/services/metadata"
	"marquee/utils/metrics"
)

const (
	defaultCategoryLimit = 20
	defaultIndexSize     = 2048
	rowFetchTimeout      = 30 * time.Second
	myListCategoryID     = "my-list"
	myListCategoryName   = "My List"
)

// Source is the subset of the catalog client the aggregator needs.
type Source interface {
	metadata.GenreSource
	IsConfigured() bool
	MovieList(ctx context.Context, path string, params url.Values) ([]metadata.MovieResult, error)
	SeriesList(ctx context.Context, path string, params url.Values) ([]metadata.SeriesResult, error)
	MovieDetails(ctx context.Context, tmdbID int64) (*metadata.MovieDetails, error)
	SeriesDetails(ctx context.Context, tmdbID int64) (*metadata.SeriesDetails, error)
	Credits(ctx context.Context, mediaType models.ContentType, tmdbID int64) (*metadata.Credits, error)
	Videos(ctx context.Context, mediaType models.ContentType, tmdbID int64) ([]metadata.Video, error)
	Certification(ctx context.Context, tmdbID int64) (string, error)
}

var _ Source = (*metadata.TMDBClient)(nil)

// WatchlistReader supplies the "My List" page.
type WatchlistReader interface {
	List() []models.ContentItem
}

// row is one predefined category and the endpoint that fills it.
type row struct {
	id        string
	name      string
	mediaType models.ContentType
	path      string
	params    url.Values
}

func (r row) key() string {
	return r.path + "?" + r.params.Encode()
}

var (
	homeRows = []row{
		{id: "trending", name: "Trending Now", mediaType: models.ContentTypeMovie, path: "trending/movie/week"},
		{id: "popular", name: "Popular Movies", mediaType: models.ContentTypeMovie, path: "movie/popular"},
		{id: "top-rated", name: "Top Rated", mediaType: models.ContentTypeMovie, path: "movie/top_rated"},
		{id: "upcoming", name: "Coming Soon", mediaType: models.ContentTypeMovie, path: "movie/upcoming"},
		{id: "action", name: "Action Movies", mediaType: models.ContentTypeMovie, path: "discover/movie", params: url.Values{"with_genres": {"28"}}},
		{id: "comedy", name: "Comedy Movies", mediaType: models.ContentTypeMovie, path: "discover/movie", params: url.Values{"with_genres": {"35"}}},
	}

	movieRows = []row{
		{id: "popular-movies", name: "Popular Movies", mediaType: models.ContentTypeMovie, path: "movie/popular"},
		{id: "top-rated-movies", name: "Top Rated Movies", mediaType: models.ContentTypeMovie, path: "movie/top_rated"},
		{id: "trending-movies", name: "Trending Movies", mediaType: models.ContentTypeMovie, path: "trending/movie/week"},
	}

	seriesRows = []row{
		{id: "popular-series", name: "Popular TV Shows", mediaType: models.ContentTypeSeries, path: "tv/popular"},
		{id: "top-rated-series", name: "Top Rated TV Shows", mediaType: models.ContentTypeSeries, path: "tv/top_rated"},
		{id: "trending-series", name: "Trending TV Shows", mediaType: models.ContentTypeSeries, path: "trending/tv/week"},
	}

	popularRow = homeRows[1]
)

type Options struct {
	CategoryLimit int
	IndexSize     int
}

type indexEntry struct {
	item     models.ContentItem
	hydrated bool
}

// Service aggregates catalog rows into categories. It never returns an
// error: failed calls are logged and replaced by empty rows or built-in
// content.
type Service struct {
	source     Source
	genres     *metadata.GenreTable
	normalizer *metadata.Normalizer
	watchlist  WatchlistReader
	limit      int

	index *lru.Cache[int64, indexEntry]
	rows  singleflight.Group
}

func NewService(source Source, genres *metadata.GenreTable, normalizer *metadata.Normalizer, watchlist WatchlistReader, opts Options) (*Service, error) {
	if source == nil {
		return nil, errors.New("catalog source is required")
	}
	if genres == nil {
		genres = metadata.NewGenreTable()
	}
	if normalizer == nil {
		normalizer = metadata.NewNormalizer(genres, metadata.NormalizerOptions{})
	}
	if opts.CategoryLimit <= 0 {
		opts.CategoryLimit = defaultCategoryLimit
	}
	if opts.IndexSize <= 0 {
		opts.IndexSize = defaultIndexSize
	}
	index, err := lru.New[int64, indexEntry](opts.IndexSize)
	if err != nil {
		return nil, err
	}
	return &Service{
		source:     source,
		genres:     genres,
		normalizer: normalizer,
		watchlist:  watchlist,
		limit:      opts.CategoryLimit,
		index:      index,
	}, nil
}

// FetchCategories returns the home page rows.
func (s *Service) FetchCategories(ctx context.Context) []models.Category {
	return s.fetchRows(ctx, "categories", homeRows)
}

// FetchMovies returns the movie page rows.
func (s *Service) FetchMovies(ctx context.Context) []models.Category {
	return s.fetchRows(ctx, "movies", movieRows, models.ContentTypeMovie)
}

// FetchSeries returns the TV page rows.
func (s *Service) FetchSeries(ctx context.Context) []models.Category {
	return s.fetchRows(ctx, "series", seriesRows, models.ContentTypeSeries)
}

// PageContent returns the rows shown on page.
func (s *Service) PageContent(ctx context.Context, page models.Page) []models.Category {
	switch page {
	case models.PageMovies:
		return s.FetchMovies(ctx)
	case models.PageTV:
		return s.FetchSeries(ctx)
	case models.PageWatchlist:
		items := []models.ContentItem{}
		if s.watchlist != nil {
			items = s.watchlist.List()
		}
		return []models.Category{{ID: myListCategoryID, Name: myListCategoryName, Content: items}}
	default:
		return s.FetchCategories(ctx)
	}
}

// FetchFeatured picks the hero item: the first popular title flagged
// featured (raw vote above the threshold), else the first popular title,
// else the built-in item.
func (s *Service) FetchFeatured(ctx context.Context) models.ContentItem {
	if s.source.IsConfigured() {
		s.genres.EnsureLoaded(ctx, s.source)
	}
	items := s.fetchRow(ctx, popularRow)
	for _, item := range items {
		if item.Featured {
			return item.Clone()
		}
	}
	if len(items) > 0 {
		return items[0].Clone()
	}
	metrics.Fallbacks.WithLabelValues("featured").Inc()
	return FallbackItem()
}

// FetchItemDetails returns the full record for id. Details already fetched
// are served from the index; otherwise details, credits, videos and the
// certification are fetched together. On failure the indexed list item is
// returned if there is one, else the built-in item.
func (s *Service) FetchItemDetails(ctx context.Context, id int64) models.ContentItem {
	entry, indexed := s.index.Get(id)
	if indexed && entry.hydrated {
		return entry.item.Clone()
	}

	fallback := func(reason string) models.ContentItem {
		if indexed {
			return entry.item.Clone()
		}
		for _, item := range FallbackItems() {
			if item.ID == id {
				return item
			}
		}
		log.Printf("[catalog] details for %d unavailable (%s), serving fallback", id, reason)
		metrics.Fallbacks.WithLabelValues("details").Inc()
		return FallbackItem()
	}

	if id <= 0 {
		return fallback("invalid id")
	}
	if !s.source.IsConfigured() {
		return fallback("catalog not configured")
	}

	mediaType, tmdbID := models.SplitContentID(id)
	var (
		item models.ContentItem
		ok   bool
	)
	if mediaType == models.ContentTypeSeries {
		item, ok = s.seriesDetails(ctx, tmdbID)
	} else {
		item, ok = s.movieDetails(ctx, tmdbID)
	}
	if !ok {
		return fallback("fetch failed")
	}

	s.index.Add(item.ID, indexEntry{item: item, hydrated: true})
	return item.Clone()
}

func (s *Service) movieDetails(ctx context.Context, tmdbID int64) (models.ContentItem, bool) {
	var (
		details *metadata.MovieDetails
		credits *metadata.Credits
		videos  []metadata.Video
		cert    string
		wg      conc.WaitGroup
	)
	wg.Go(func() {
		var err error
		if details, err = s.source.MovieDetails(ctx, tmdbID); err != nil {
			log.Printf("[catalog] movie %d details: %v", tmdbID, err)
		}
	})
	wg.Go(func() {
		var err error
		if credits, err = s.source.Credits(ctx, models.ContentTypeMovie, tmdbID); err != nil {
			log.Printf("[catalog] movie %d credits: %v", tmdbID, err)
		}
	})
	wg.Go(func() {
		var err error
		if videos, err = s.source.Videos(ctx, models.ContentTypeMovie, tmdbID); err != nil {
			log.Printf("[catalog] movie %d videos: %v", tmdbID, err)
		}
	})
	wg.Go(func() {
		var err error
		if cert, err = s.source.Certification(ctx, tmdbID); err != nil {
			log.Printf("[catalog] movie %d certification: %v", tmdbID, err)
		}
	})
	if r := wg.WaitAndRecover(); r != nil {
		log.Printf("[catalog] movie %d detail fetch panicked: %v", tmdbID, r.Value)
		return models.ContentItem{}, false
	}
	if details == nil {
		return models.ContentItem{}, false
	}

	details.Credits = credits
	details.Videos = videos
	details.Certification = cert
	return s.normalizer.Normalize(details), true
}

func (s *Service) seriesDetails(ctx context.Context, tmdbID int64) (models.ContentItem, bool) {
	var (
		details *metadata.SeriesDetails
		credits *metadata.Credits
		videos  []metadata.Video
		wg      conc.WaitGroup
	)
	wg.Go(func() {
		var err error
		if details, err = s.source.SeriesDetails(ctx, tmdbID); err != nil {
			log.Printf("[catalog] series %d details: %v", tmdbID, err)
		}
	})
	wg.Go(func() {
		var err error
		if credits, err = s.source.Credits(ctx, models.ContentTypeSeries, tmdbID); err != nil {
			log.Printf("[catalog] series %d credits: %v", tmdbID, err)
		}
	})
	wg.Go(func() {
		var err error
		if videos, err = s.source.Videos(ctx, models.ContentTypeSeries, tmdbID); err != nil {
			log.Printf("[catalog] series %d videos: %v", tmdbID, err)
		}
	})
	if r := wg.WaitAndRecover(); r != nil {
		log.Printf("[catalog] series %d detail fetch panicked: %v", tmdbID, r.Value)
		return models.ContentItem{}, false
	}
	if details == nil {
		return models.ContentItem{}, false
	}

	details.Credits = credits
	details.Videos = videos
	return s.normalizer.Normalize(details), true
}

// Items returns a copy of every item aggregated so far, oldest first.
func (s *Service) Items() []models.ContentItem {
	entries := s.index.Values()
	items := make([]models.ContentItem, len(entries))
	for i, entry := range entries {
		items[i] = entry.item.Clone()
	}
	return items
}

// Warm reloads the genre table and fetches every predefined row so the
// response cache and the item index are populated.
func (s *Service) Warm(ctx context.Context) error {
	if !s.source.IsConfigured() {
		return metadata.ErrNotConfigured
	}
	start := time.Now()
	err := s.genres.Load(ctx, s.source)

	var wg conc.WaitGroup
	wg.Go(func() { s.FetchCategories(ctx) })
	wg.Go(func() { s.FetchMovies(ctx) })
	wg.Go(func() { s.FetchSeries(ctx) })
	if r := wg.WaitAndRecover(); r != nil {
		err = errors.Join(err, r.AsError())
	}

	log.Printf("[catalog] warmed %d items in %s", s.index.Len(), time.Since(start).Round(time.Millisecond))
	return err
}

func (s *Service) fetchRows(ctx context.Context, op string, rows []row, types ...models.ContentType) []models.Category {
	if !s.source.IsConfigured() {
		metrics.Fallbacks.WithLabelValues(op).Inc()
		return FallbackCategories(types...)
	}
	s.genres.EnsureLoaded(ctx, s.source)

	results := make([][]models.ContentItem, len(rows))
	var wg conc.WaitGroup
	for i, r := range rows {
		wg.Go(func() {
			results[i] = s.fetchRow(ctx, r)
		})
	}
	if rec := wg.WaitAndRecover(); rec != nil {
		log.Printf("[catalog] %s: row fetch panicked: %v", op, rec.Value)
	}

	categories := make([]models.Category, 0, len(rows))
	for i, r := range rows {
		if len(results[i]) == 0 {
			continue
		}
		categories = append(categories, models.Category{ID: r.id, Name: r.name, Content: cloneItems(results[i])})
	}
	if len(categories) == 0 {
		log.Printf("[catalog] %s: every row empty, serving fallback", op)
		metrics.Fallbacks.WithLabelValues(op).Inc()
		return FallbackCategories(types...)
	}
	return categories
}

// fetchRow fetches, normalizes, dedupes and truncates one row. Concurrent
// requests for the same row share a single fetch, which runs detached from
// any one caller so a departing caller cannot empty the row for the others.
// Errors, and the caller's own cancellation, yield an empty row.
func (s *Service) fetchRow(ctx context.Context, r row) []models.ContentItem {
	ch := s.rows.DoChan(r.key(), func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rowFetchTimeout)
		defer cancel()

		var items []models.ContentItem
		switch r.mediaType {
		case models.ContentTypeSeries:
			results, err := s.source.SeriesList(ctx, r.path, r.params)
			if err != nil {
				log.Printf("[catalog] row %s: %v", r.id, err)
				return []models.ContentItem{}, nil
			}
			items = s.normalizer.NormalizeSeries(results)
		default:
			results, err := s.source.MovieList(ctx, r.path, r.params)
			if err != nil {
				log.Printf("[catalog] row %s: %v", r.id, err)
				return []models.ContentItem{}, nil
			}
			items = s.normalizer.NormalizeMovies(results)
		}

		items = DedupeByTitle(items)
		if len(items) > s.limit {
			items = items[:s.limit]
		}
		s.indexItems(items)
		return items, nil
	})

	select {
	case res := <-ch:
		return res.Val.([]models.ContentItem)
	case <-ctx.Done():
		log.Printf("[catalog] row %s: %v", r.id, ctx.Err())
		return []models.ContentItem{}
	}
}

func (s *Service) indexItems(items []models.ContentItem) {
	for _, item := range items {
		if existing, ok := s.index.Peek(item.ID); ok && existing.hydrated {
			continue
		}
		s.index.Add(item.ID, indexEntry{item: item.Clone()})
	}
}

// DedupeByTitle keeps the first item for each exact title string.
func DedupeByTitle(items []models.ContentItem) []models.ContentItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.Title]; dup {
			continue
		}
		seen[item.Title] = struct{}{}
		out = append(out, item)
	}
	return out
}

func cloneItems(items []models.ContentItem) []models.ContentItem {
	out := make([]models.ContentItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
