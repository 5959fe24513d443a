package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server    ServerSettings    `json:"server"`
	Metadata  MetadataSettings  `json:"metadata"`
	Catalog   CatalogSettings   `json:"catalog"`
	Search    SearchSettings    `json:"search"`
	HTTP      HTTPSettings      `json:"http"`
	Cache     CacheSettings     `json:"cache"`
	Scheduler SchedulerSettings `json:"scheduler"`
	Log       LogConfig         `json:"log"`
}

type ServerSettings struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	CORSOrigins string `json:"corsOrigins"`
}

type MetadataSettings struct {
	TMDBAPIKey   string `json:"tmdbApiKey"`
	Language     string `json:"language"`
	BaseURL      string `json:"baseUrl"`
	ImageBaseURL string `json:"imageBaseUrl"`
}

// CatalogSettings controls how rows are shaped.
type CatalogSettings struct {
	CategoryLimit           int     `json:"categoryLimit"`
	FeaturedRatingThreshold float64 `json:"featuredRatingThreshold"`
	TrendingPopularity      float64 `json:"trendingPopularity"` // items above this popularity are flagged trending
	IndexSize               int     `json:"indexSize"`          // aggregated items kept for detail lookups and local search
}

type SearchSettings struct {
	Limit          int `json:"limit"`
	DebounceMillis int `json:"debounceMillis"`
}

// HTTPSettings controls the outbound catalog client.
type HTTPSettings struct {
	RequestTimeoutSeconds int `json:"requestTimeoutSeconds"`
	RetryAttempts         int `json:"retryAttempts"` // 1 = single attempt, no retry
	MinIntervalMillis     int `json:"minIntervalMillis"`
}

type CacheSettings struct {
	Directory  string `json:"directory"`
	TTLMinutes int    `json:"ttlMinutes"` // 0 disables response caching
	RedisURL   string `json:"redisUrl"`   // when set, responses are cached in redis instead of files
}

type SchedulerSettings struct {
	WarmSpec string `json:"warmSpec"` // cron spec; empty disables warm-up
}

// LogConfig represents logging configuration
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns sane defaults for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 7788, CORSOrigins: "*"},
		Metadata: MetadataSettings{
			TMDBAPIKey:   "",
			Language:     "en-US",
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
		},
		Catalog: CatalogSettings{
			CategoryLimit:           20,
			FeaturedRatingThreshold: 7.5,
			TrendingPopularity:      100,
			IndexSize:               2048,
		},
		Search: SearchSettings{Limit: 20, DebounceMillis: 300},
		HTTP:   HTTPSettings{RequestTimeoutSeconds: 15, RetryAttempts: 1, MinIntervalMillis: 20},
		Cache:  CacheSettings{Directory: "cache", TTLMinutes: 30},
		Scheduler: SchedulerSettings{
			WarmSpec: "@every 30m",
		},
		Log: LogConfig{
			File:       "cache/logs/marquee.log",
			Level:      "info",
			MaxSize:    50,   // 50 MB per file
			MaxBackups: 3,    // keep 3 old files
			MaxAge:     7,    // 7 days
			Compress:   true, // compress old files
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// EnsureDir ensures parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	s := DefaultSettings()
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}
	s.applyDefaults()
	return s, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}

// ApplyEnv overrides settings from the environment. Secrets such as the
// catalog key are expected to come from here rather than the settings file.
func (s *Settings) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("TMDB_API_KEY")); v != "" {
		s.Metadata.TMDBAPIKey = v
	}
	if v := strings.TrimSpace(getenv("TMDB_LANGUAGE")); v != "" {
		s.Metadata.Language = v
	}
	if v := strings.TrimSpace(getenv("REDIS_URL")); v != "" {
		s.Cache.RedisURL = v
	}
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			s.Server.Port = port
		}
	}
	if v := strings.TrimSpace(getenv("LOG_LEVEL")); v != "" {
		s.Log.Level = v
	}
}

// applyDefaults fills zero values left by older or hand-edited files.
func (s *Settings) applyDefaults() {
	d := DefaultSettings()
	if s.Server.Port <= 0 {
		s.Server.Port = d.Server.Port
	}
	if strings.TrimSpace(s.Metadata.BaseURL) == "" {
		s.Metadata.BaseURL = d.Metadata.BaseURL
	}
	if strings.TrimSpace(s.Metadata.ImageBaseURL) == "" {
		s.Metadata.ImageBaseURL = d.Metadata.ImageBaseURL
	}
	if s.Catalog.CategoryLimit <= 0 {
		s.Catalog.CategoryLimit = d.Catalog.CategoryLimit
	}
	if s.Catalog.FeaturedRatingThreshold <= 0 {
		s.Catalog.FeaturedRatingThreshold = d.Catalog.FeaturedRatingThreshold
	}
	if s.Catalog.TrendingPopularity <= 0 {
		s.Catalog.TrendingPopularity = d.Catalog.TrendingPopularity
	}
	if s.Catalog.IndexSize <= 0 {
		s.Catalog.IndexSize = d.Catalog.IndexSize
	}
	if s.Search.Limit <= 0 {
		s.Search.Limit = d.Search.Limit
	}
	if s.Search.DebounceMillis <= 0 {
		s.Search.DebounceMillis = d.Search.DebounceMillis
	}
	if s.HTTP.RequestTimeoutSeconds <= 0 {
		s.HTTP.RequestTimeoutSeconds = d.HTTP.RequestTimeoutSeconds
	}
	if s.HTTP.RetryAttempts <= 0 {
		s.HTTP.RetryAttempts = d.HTTP.RetryAttempts
	}
	if s.HTTP.MinIntervalMillis < 0 {
		s.HTTP.MinIntervalMillis = 0
	}
	if strings.TrimSpace(s.Cache.Directory) == "" {
		s.Cache.Directory = d.Cache.Directory
	}
}
