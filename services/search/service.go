package search

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/sourcegraph/conc"

	"marquee/models"
	"marquee/services/catalog"
	"marquee/services/metadata"
	"marquee/utils/metrics"
	"marquee/utils/similarity"
)

const defaultLimit = 20

// Remote is the catalog search API.
type Remote interface {
	IsConfigured() bool
	SearchMovies(ctx context.Context, query string) ([]metadata.MovieResult, error)
	SearchSeries(ctx context.Context, query string) ([]metadata.SeriesResult, error)
}

var _ Remote = (*metadata.TMDBClient)(nil)

// LocalSource lists the items already aggregated in memory.
type LocalSource interface {
	Items() []models.ContentItem
}

var _ LocalSource = (*catalog.Service)(nil)

type Options struct {
	Limit int
}

// Service answers free-text queries from the remote catalog and from local
// content. It never fails: remote errors leave only the local matches.
type Service struct {
	remote     Remote
	normalizer *metadata.Normalizer
	local      LocalSource
	limit      int
}

func NewService(remote Remote, normalizer *metadata.Normalizer, local LocalSource, opts Options) *Service {
	if normalizer == nil {
		normalizer = metadata.NewNormalizer(nil, metadata.NormalizerOptions{})
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	return &Service{remote: remote, normalizer: normalizer, local: local, limit: opts.Limit}
}

// Search returns remote matches followed by local matches, deduplicated by
// title and capped at the limit. A blank query returns nothing and makes no
// remote call.
func (s *Service) Search(ctx context.Context, query string) []models.ContentItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.ContentItem{}
	}

	results := s.searchRemote(ctx, query)
	results = append(results, s.searchLocal(query)...)
	results = catalog.DedupeByTitle(results)
	if len(results) > s.limit {
		results = results[:s.limit]
	}
	return results
}

func (s *Service) searchRemote(ctx context.Context, query string) []models.ContentItem {
	if s.remote == nil || !s.remote.IsConfigured() {
		return nil
	}

	var (
		movies []metadata.MovieResult
		series []metadata.SeriesResult
		wg     conc.WaitGroup
	)
	wg.Go(func() {
		var err error
		if movies, err = s.remote.SearchMovies(ctx, query); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[search] movie search %q: %v", query, err)
		}
	})
	wg.Go(func() {
		var err error
		if series, err = s.remote.SearchSeries(ctx, query); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[search] series search %q: %v", query, err)
		}
	})
	if r := wg.WaitAndRecover(); r != nil {
		log.Printf("[search] remote search %q panicked: %v", query, r.Value)
		metrics.Fallbacks.WithLabelValues("search").Inc()
		return nil
	}
	if movies == nil && series == nil {
		metrics.Fallbacks.WithLabelValues("search").Inc()
	}

	items := s.normalizer.NormalizeMovies(movies)
	return append(items, s.normalizer.NormalizeSeries(series)...)
}

// searchLocal matches the query against title, description and genres of
// the aggregated items and the built-in titles, best title match first.
func (s *Service) searchLocal(query string) []models.ContentItem {
	var candidates []models.ContentItem
	if s.local != nil {
		candidates = s.local.Items()
	}
	candidates = append(candidates, catalog.FallbackItems()...)

	type scored struct {
		item  models.ContentItem
		score float64
	}
	matches := make([]scored, 0, len(candidates))
	for _, item := range candidates {
		if !Matches(item, query) {
			continue
		}
		matches = append(matches, scored{item: item, score: similarity.Score(query, item.Title)})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	items := make([]models.ContentItem, len(matches))
	for i, m := range matches {
		items[i] = m.item
	}
	return items
}

// Matches reports whether query occurs in the item's title, description or
// any genre name, ignoring case and accents.
func Matches(item models.ContentItem, query string) bool {
	if similarity.Contains(item.Title, query) || similarity.Contains(item.Description, query) {
		return true
	}
	for _, genre := range item.Genre {
		if similarity.Contains(genre, query) {
			return true
		}
	}
	return false
}
