package metadata

import "marquee/models"

// Catalog payload shapes. Movies and shows use different field names for
// the same concepts (title/name, release_date/first_air_date), and list
// endpoints carry genre ids while detail endpoints embed genre objects.
// Every shape implements Record so the Normalizer can convert it.

type listResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// MovieResult is a movie as returned by list, discover and search endpoints.
type MovieResult struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	GenreIDs      []int64 `json:"genre_ids"`
	VoteAverage   float64 `json:"vote_average"`
	ReleaseDate   string  `json:"release_date"`
	Popularity    float64 `json:"popularity"`
	Adult         bool    `json:"adult"`
}

// SeriesResult is a show as returned by list, discover and search endpoints.
type SeriesResult struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	GenreIDs     []int64 `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
	FirstAirDate string  `json:"first_air_date"`
	Popularity   float64 `json:"popularity"`
	Adult        bool    `json:"adult"`
}

// MovieDetails is the movie detail payload. Credits, videos and the
// certification come from separate calls and are attached by the caller.
type MovieDetails struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	OriginalTitle string         `json:"original_title"`
	Overview      string         `json:"overview"`
	PosterPath    string         `json:"poster_path"`
	BackdropPath  string         `json:"backdrop_path"`
	Genres        []models.Genre `json:"genres"`
	VoteAverage   float64        `json:"vote_average"`
	ReleaseDate   string         `json:"release_date"`
	Popularity    float64        `json:"popularity"`
	Adult         bool           `json:"adult"`
	Runtime       int            `json:"runtime"`

	Credits       *Credits `json:"-"`
	Videos        []Video  `json:"-"`
	Certification string   `json:"-"`
}

// SeriesDetails is the show detail payload.
type SeriesDetails struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	OriginalName    string         `json:"original_name"`
	Overview        string         `json:"overview"`
	PosterPath      string         `json:"poster_path"`
	BackdropPath    string         `json:"backdrop_path"`
	Genres          []models.Genre `json:"genres"`
	VoteAverage     float64        `json:"vote_average"`
	FirstAirDate    string         `json:"first_air_date"`
	Popularity      float64        `json:"popularity"`
	Adult           bool           `json:"adult"`
	EpisodeRunTime  []int          `json:"episode_run_time"`
	NumberOfSeasons int            `json:"number_of_seasons"`
	CreatedBy       []struct {
		Name string `json:"name"`
	} `json:"created_by"`

	Credits *Credits `json:"-"`
	Videos  []Video  `json:"-"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

type videosResponse struct {
	Results []Video `json:"results"`
}

type Video struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
	Size        int    `json:"size"`
}

type genresResponse struct {
	Genres []models.Genre `json:"genres"`
}

type releaseDatesResponse struct {
	Results []struct {
		ISO31661     string `json:"iso_3166_1"`
		ReleaseDates []struct {
			Certification string `json:"certification"`
			Type          int    `json:"type"`
		} `json:"release_dates"`
	} `json:"results"`
}
