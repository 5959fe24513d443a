package metadata

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/text/language"

	"marquee/models"
	"marquee/utils/metrics"
)

const (
	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL = "https://image.tmdb.org/t/p"
	// Posters: w500 is plenty for row cards. Backdrops: w1280 for hero banners.
	tmdbPosterSize   = "w500"
	tmdbBackdropSize = "w1280"
)

var ErrNotConfigured = errors.New("tmdb api key not configured")

// StatusError reports a non-success response from the catalog.
type StatusError struct {
	Endpoint string
	Code     int
	Status   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s failed: %s", e.Endpoint, e.Status)
}

func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type ClientConfig struct {
	APIKey        string
	Language      string
	BaseURL       string
	ImageBaseURL  string
	RetryAttempts int
	MinInterval   time.Duration
}

// TMDBClient talks to the TMDB v3 API. Every call is a single GET with the
// key in the query string; responses may be served from the optional cache.
type TMDBClient struct {
	apiKey       string
	language     string
	baseURL      string
	imageBaseURL string
	attempts     uint
	httpc        *http.Client
	cache        Cache

	// Rate limiting
	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func NewTMDBClient(cfg ClientConfig, httpc *http.Client, cache Cache) *TMDBClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultTMDBBaseURL
	}
	imageBaseURL := strings.TrimRight(strings.TrimSpace(cfg.ImageBaseURL), "/")
	if imageBaseURL == "" {
		imageBaseURL = defaultTMDBImageBaseURL
	}
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &TMDBClient{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		language:     normalizeLanguage(cfg.Language),
		baseURL:      baseURL,
		imageBaseURL: imageBaseURL,
		attempts:     uint(attempts),
		httpc:        httpc,
		cache:        cache,
		minInterval:  cfg.MinInterval,
	}
}

// IsConfigured reports whether the client has a key to call the API with.
func (c *TMDBClient) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

// ImageBaseURL is the prefix poster and backdrop paths are joined onto.
func (c *TMDBClient) ImageBaseURL() string {
	return c.imageBaseURL
}

// MovieList fetches the first page of a movie list endpoint such as
// "movie/popular" or "discover/movie".
func (c *TMDBClient) MovieList(ctx context.Context, path string, params url.Values) ([]MovieResult, error) {
	var payload listResponse[MovieResult]
	if err := c.doGET(ctx, path, withPage(params), &payload); err != nil {
		return nil, err
	}
	if payload.Results == nil {
		return []MovieResult{}, nil
	}
	return payload.Results, nil
}

// SeriesList fetches the first page of a show list endpoint such as
// "tv/popular" or "trending/tv/week".
func (c *TMDBClient) SeriesList(ctx context.Context, path string, params url.Values) ([]SeriesResult, error) {
	var payload listResponse[SeriesResult]
	if err := c.doGET(ctx, path, withPage(params), &payload); err != nil {
		return nil, err
	}
	if payload.Results == nil {
		return []SeriesResult{}, nil
	}
	return payload.Results, nil
}

func (c *TMDBClient) SearchMovies(ctx context.Context, query string) ([]MovieResult, error) {
	return c.MovieList(ctx, "search/movie", url.Values{"query": {query}, "include_adult": {"false"}})
}

func (c *TMDBClient) SearchSeries(ctx context.Context, query string) ([]SeriesResult, error) {
	return c.SeriesList(ctx, "search/tv", url.Values{"query": {query}, "include_adult": {"false"}})
}

// Genres returns the genre id table for movies or shows.
func (c *TMDBClient) Genres(ctx context.Context, mediaType models.ContentType) ([]models.Genre, error) {
	var payload genresResponse
	if err := c.doGET(ctx, "genre/"+apiMediaType(mediaType)+"/list", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Genres, nil
}

func (c *TMDBClient) MovieDetails(ctx context.Context, tmdbID int64) (*MovieDetails, error) {
	var movie MovieDetails
	if err := c.doGET(ctx, "movie/"+strconv.FormatInt(tmdbID, 10), nil, &movie); err != nil {
		return nil, err
	}
	if movie.ID == 0 {
		return nil, fmt.Errorf("tmdb movie %d: empty payload", tmdbID)
	}
	return &movie, nil
}

func (c *TMDBClient) SeriesDetails(ctx context.Context, tmdbID int64) (*SeriesDetails, error) {
	var series SeriesDetails
	if err := c.doGET(ctx, "tv/"+strconv.FormatInt(tmdbID, 10), nil, &series); err != nil {
		return nil, err
	}
	if series.ID == 0 {
		return nil, fmt.Errorf("tmdb series %d: empty payload", tmdbID)
	}
	return &series, nil
}

func (c *TMDBClient) Credits(ctx context.Context, mediaType models.ContentType, tmdbID int64) (*Credits, error) {
	var credits Credits
	path := apiMediaType(mediaType) + "/" + strconv.FormatInt(tmdbID, 10) + "/credits"
	if err := c.doGET(ctx, path, nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

func (c *TMDBClient) Videos(ctx context.Context, mediaType models.ContentType, tmdbID int64) ([]Video, error) {
	var payload videosResponse
	path := apiMediaType(mediaType) + "/" + strconv.FormatInt(tmdbID, 10) + "/videos"
	if err := c.doGET(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// Certification returns the US theatrical certification of a movie, or ""
// when none is published.
func (c *TMDBClient) Certification(ctx context.Context, tmdbID int64) (string, error) {
	var payload releaseDatesResponse
	path := "movie/" + strconv.FormatInt(tmdbID, 10) + "/release_dates"
	if err := c.doGET(ctx, path, url.Values{}, &payload); err != nil {
		return "", err
	}
	for _, country := range payload.Results {
		if !strings.EqualFold(country.ISO31661, "US") {
			continue
		}
		for _, entry := range country.ReleaseDates {
			if cert := strings.TrimSpace(entry.Certification); cert != "" {
				return cert, nil
			}
		}
	}
	return "", nil
}

// doGET performs a cached, rate limited GET. Failed attempts are retried
// only for 429/5xx responses and transport errors, and only when more than
// one attempt is configured.
func (c *TMDBClient) doGET(ctx context.Context, path string, params url.Values, v any) error {
	group := endpointGroup(path)
	if !c.IsConfigured() {
		metrics.UpstreamRequests.WithLabelValues(group, "unconfigured").Inc()
		return ErrNotConfigured
	}

	endpoint, err := url.JoinPath(c.baseURL, strings.Split(strings.Trim(path, "/"), "/")...)
	if err != nil {
		return err
	}

	q := url.Values{}
	for k, vals := range params {
		q[k] = append([]string(nil), vals...)
	}
	if q.Get("language") == "" {
		q.Set("language", c.language)
	}

	key := cacheKey("tmdb", endpoint, q.Encode())
	if c.cache != nil {
		if ok, err := c.cache.Get(ctx, key, v); err != nil {
			log.Printf("[tmdb] cache read %s: %v", group, err)
		} else if ok {
			metrics.CacheHits.Inc()
			return nil
		}
		metrics.CacheMisses.Inc()
	}

	q.Set("api_key", c.apiKey)
	target := endpoint + "?" + q.Encode()

	err = retry.Do(
		func() error { return c.fetch(ctx, target, path, v) },
		retry.Attempts(c.attempts),
		retry.Context(ctx),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[tmdb] %s attempt %d/%d failed: %v", group, n+1, c.attempts, err)
		}),
	)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(group, "error").Inc()
		return err
	}
	metrics.UpstreamRequests.WithLabelValues(group, "ok").Inc()

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, v); err != nil {
			log.Printf("[tmdb] cache write %s: %v", group, err)
		}
	}
	return nil
}

func (c *TMDBClient) fetch(ctx context.Context, target, path string, v any) error {
	c.throttle()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &StatusError{Endpoint: path, Code: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return retry.Unrecoverable(fmt.Errorf("decode tmdb %s: %w", path, err))
	}
	return nil
}

func (c *TMDBClient) throttle() {
	if c.minInterval <= 0 {
		return
	}
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()
	since := time.Since(c.lastRequest)
	if since < c.minInterval {
		time.Sleep(c.minInterval - since)
	}
	c.lastRequest = time.Now()
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.retryable()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func withPage(params url.Values) url.Values {
	q := url.Values{}
	for k, vals := range params {
		q[k] = vals
	}
	if q.Get("page") == "" {
		q.Set("page", "1")
	}
	return q
}

func apiMediaType(mediaType models.ContentType) string {
	if mediaType == models.ContentTypeSeries {
		return "tv"
	}
	return "movie"
}

// endpointGroup collapses ids out of a path so metrics stay low-cardinality.
func endpointGroup(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if _, err := strconv.ParseInt(part, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func normalizeLanguage(lang string) string {
	lang = strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if lang == "" {
		return "en-US"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "en-US"
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.No {
		return base.String() + "-US"
	}
	return base.String() + "-" + region.String()
}

func cacheKey(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(h[:])
}
