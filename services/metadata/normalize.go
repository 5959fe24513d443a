package metadata

import (
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"marquee/models"
)

const (
	noDescription    = "No description available."
	placeholderImage = "https://images.pexels.com/photos/1200450/pexels-photo-1200450.jpeg?auto=compress&cs=tinysrgb"

	// List endpoints carry no runtime.
	defaultMovieDuration  = "120m"
	defaultSeriesDuration = "45m"
)

// Record is one catalog payload shape. Each shape fills in what it knows;
// the Normalizer then applies the rules every ContentItem must satisfy.
type Record interface {
	draft(n *Normalizer) models.ContentItem
}

var (
	_ Record = MovieResult{}
	_ Record = SeriesResult{}
	_ Record = (*MovieDetails)(nil)
	_ Record = (*SeriesDetails)(nil)
)

type NormalizerOptions struct {
	ImageBaseURL            string
	TrendingPopularity      float64
	FeaturedRatingThreshold float64
}

// Normalizer converts catalog payloads into ContentItems.
type Normalizer struct {
	genres             *GenreTable
	imageBaseURL       string
	trendingPopularity float64
	featuredThreshold  float64
}

func NewNormalizer(genres *GenreTable, opts NormalizerOptions) *Normalizer {
	if genres == nil {
		genres = NewGenreTable()
	}
	base := strings.TrimRight(opts.ImageBaseURL, "/")
	if base == "" {
		base = defaultTMDBImageBaseURL
	}
	if opts.TrendingPopularity <= 0 {
		opts.TrendingPopularity = 100
	}
	if opts.FeaturedRatingThreshold <= 0 {
		opts.FeaturedRatingThreshold = 7.5
	}
	return &Normalizer{
		genres:             genres,
		imageBaseURL:       base,
		trendingPopularity: opts.TrendingPopularity,
		featuredThreshold:  opts.FeaturedRatingThreshold,
	}
}

// Normalize converts r and enforces the shared invariants: the rating is
// within [0,10] with one decimal and the genre list is never empty.
func (n *Normalizer) Normalize(r Record) models.ContentItem {
	item := r.draft(n)
	item.Rating = models.RoundRating(item.Rating)
	if len(item.Genre) == 0 {
		item.Genre = []string{models.DefaultGenre}
	}
	if strings.TrimSpace(item.Description) == "" {
		item.Description = noDescription
	}
	if item.Thumbnail == "" {
		item.Thumbnail = placeholderImage + "&w=400"
	}
	if item.Backdrop == "" {
		item.Backdrop = placeholderImage + "&w=1200"
	}
	if item.Cast == nil {
		item.Cast = []string{}
	}
	return item
}

// NormalizeMovies converts a list of movie results.
func (n *Normalizer) NormalizeMovies(results []MovieResult) []models.ContentItem {
	items := make([]models.ContentItem, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		items = append(items, n.Normalize(r))
	}
	return items
}

// NormalizeSeries converts a list of show results.
func (n *Normalizer) NormalizeSeries(results []SeriesResult) []models.ContentItem {
	items := make([]models.ContentItem, 0, len(results))
	for _, r := range results {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		items = append(items, n.Normalize(r))
	}
	return items
}

func (m MovieResult) draft(n *Normalizer) models.ContentItem {
	return models.ContentItem{
		ID:             models.ContentID(models.ContentTypeMovie, m.ID),
		Title:          strings.TrimSpace(m.Title),
		Description:    strings.TrimSpace(m.Overview),
		Thumbnail:      n.image(m.PosterPath, tmdbPosterSize),
		Backdrop:       n.image(m.BackdropPath, tmdbBackdropSize),
		Genre:          n.genres.Resolve(m.GenreIDs),
		Rating:         m.VoteAverage,
		Year:           parseYear(m.ReleaseDate),
		Duration:       defaultMovieDuration,
		Type:           models.ContentTypeMovie,
		Trending:       m.Popularity > n.trendingPopularity,
		Featured:       m.VoteAverage > n.featuredThreshold,
		MaturityRating: movieMaturity(m.Adult, ""),
		ReleaseDate:    m.ReleaseDate,
		OriginalTitle:  m.OriginalTitle,
		Popularity:     m.Popularity,
	}
}

func (s SeriesResult) draft(n *Normalizer) models.ContentItem {
	return models.ContentItem{
		ID:             models.ContentID(models.ContentTypeSeries, s.ID),
		Title:          strings.TrimSpace(s.Name),
		Description:    strings.TrimSpace(s.Overview),
		Thumbnail:      n.image(s.PosterPath, tmdbPosterSize),
		Backdrop:       n.image(s.BackdropPath, tmdbBackdropSize),
		Genre:          n.genres.Resolve(s.GenreIDs),
		Rating:         s.VoteAverage,
		Year:           parseYear(s.FirstAirDate),
		Duration:       defaultSeriesDuration,
		Type:           models.ContentTypeSeries,
		Trending:       s.Popularity > n.trendingPopularity,
		Featured:       s.VoteAverage > n.featuredThreshold,
		MaturityRating: seriesMaturity(s.Adult),
		ReleaseDate:    s.FirstAirDate,
		OriginalTitle:  s.OriginalName,
		Popularity:     s.Popularity,
	}
}

func (m *MovieDetails) draft(n *Normalizer) models.ContentItem {
	item := models.ContentItem{
		ID:             models.ContentID(models.ContentTypeMovie, m.ID),
		Title:          strings.TrimSpace(m.Title),
		Description:    strings.TrimSpace(m.Overview),
		Thumbnail:      n.image(m.PosterPath, tmdbPosterSize),
		Backdrop:       n.image(m.BackdropPath, tmdbBackdropSize),
		Genre:          genreNames(m.Genres),
		Rating:         m.VoteAverage,
		Year:           parseYear(m.ReleaseDate),
		Duration:       formatRuntime(m.Runtime, defaultMovieDuration),
		Type:           models.ContentTypeMovie,
		Trending:       m.Popularity > n.trendingPopularity,
		Featured:       m.VoteAverage > n.featuredThreshold,
		MaturityRating: movieMaturity(m.Adult, m.Certification),
		TrailerURL:     trailerURL(m.Videos),
		ReleaseDate:    m.ReleaseDate,
		OriginalTitle:  m.OriginalTitle,
		Popularity:     m.Popularity,
	}
	if m.Credits != nil {
		item.Cast = topCast(m.Credits.Cast, 5)
		item.Director = crewByJob(m.Credits.Crew, "Director")
	}
	return item
}

func (s *SeriesDetails) draft(n *Normalizer) models.ContentItem {
	runtime := 0
	if len(s.EpisodeRunTime) > 0 {
		runtime = s.EpisodeRunTime[0]
	}
	duration := formatRuntime(runtime, defaultSeriesDuration)
	if s.NumberOfSeasons == 1 {
		duration = "1 Season"
	} else if s.NumberOfSeasons > 1 {
		duration = fmt.Sprintf("%d Seasons", s.NumberOfSeasons)
	}

	item := models.ContentItem{
		ID:             models.ContentID(models.ContentTypeSeries, s.ID),
		Title:          strings.TrimSpace(s.Name),
		Description:    strings.TrimSpace(s.Overview),
		Thumbnail:      n.image(s.PosterPath, tmdbPosterSize),
		Backdrop:       n.image(s.BackdropPath, tmdbBackdropSize),
		Genre:          genreNames(s.Genres),
		Rating:         s.VoteAverage,
		Year:           parseYear(s.FirstAirDate),
		Duration:       duration,
		Type:           models.ContentTypeSeries,
		Trending:       s.Popularity > n.trendingPopularity,
		Featured:       s.VoteAverage > n.featuredThreshold,
		MaturityRating: seriesMaturity(s.Adult),
		TrailerURL:     trailerURL(s.Videos),
		ReleaseDate:    s.FirstAirDate,
		OriginalTitle:  s.OriginalName,
		Popularity:     s.Popularity,
	}

	creators := make([]string, 0, len(s.CreatedBy))
	for _, c := range s.CreatedBy {
		if name := strings.TrimSpace(c.Name); name != "" {
			creators = append(creators, name)
		}
	}
	item.Director = strings.Join(creators, ", ")

	if s.Credits != nil {
		item.Cast = topCast(s.Credits.Cast, 5)
		if item.Director == "" {
			item.Director = crewByJob(s.Credits.Crew, "Executive Producer")
		}
	}
	return item
}

func (n *Normalizer) image(imagePath, size string) string {
	trimmed := strings.TrimSpace(imagePath)
	if trimmed == "" {
		return ""
	}
	return n.imageBaseURL + "/" + path.Join(size, strings.TrimPrefix(trimmed, "/"))
}

func genreNames(genres []models.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func parseYear(date string) int {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Year()
	}
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return 0
}

func formatRuntime(minutes int, fallback string) string {
	if minutes <= 0 {
		return fallback
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func movieMaturity(adult bool, certification string) string {
	if cert := strings.TrimSpace(certification); cert != "" {
		return cert
	}
	if adult {
		return "R"
	}
	return "PG-13"
}

func seriesMaturity(adult bool) string {
	if adult {
		return "TV-MA"
	}
	return "TV-14"
}

func topCast(cast []CastMember, limit int) []string {
	sorted := make([]CastMember, len(cast))
	copy(sorted, cast)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	names := make([]string, 0, limit)
	for _, member := range sorted {
		if len(names) == limit {
			break
		}
		if name := strings.TrimSpace(member.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func crewByJob(crew []CrewMember, job string) string {
	for _, member := range crew {
		if strings.EqualFold(member.Job, job) && strings.TrimSpace(member.Name) != "" {
			return strings.TrimSpace(member.Name)
		}
	}
	return ""
}

// trailerURL picks the best YouTube or Vimeo video: official trailers
// first, then any trailer, then teasers.
func trailerURL(videos []Video) string {
	best, bestScore := "", -1
	for _, v := range videos {
		key := strings.TrimSpace(v.Key)
		if key == "" {
			continue
		}
		var link string
		switch strings.ToLower(strings.TrimSpace(v.Site)) {
		case "youtube":
			link = "https://www.youtube.com/watch?v=" + key
		case "vimeo":
			link = "https://vimeo.com/" + key
		default:
			continue
		}

		score := 0
		switch strings.ToLower(strings.TrimSpace(v.Type)) {
		case "trailer":
			score = 4
		case "teaser":
			score = 2
		}
		if v.Official {
			score++
		}
		if score > bestScore {
			best, bestScore = link, score
		}
	}
	return best
}
