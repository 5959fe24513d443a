package handlers

import (
	"net/http"
	"net/url"

	"marquee/config"
)

type settingsLoader interface {
	Load() (config.Settings, error)
}

var _ settingsLoader = (*config.Manager)(nil)

type SettingsHandler struct {
	Manager settingsLoader
}

func NewSettingsHandler(m settingsLoader) *SettingsHandler {
	return &SettingsHandler{Manager: m}
}

// GetSettings returns the settings file with secrets masked.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Manager.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, redact(s))
}

func redact(s config.Settings) config.Settings {
	if key := s.Metadata.TMDBAPIKey; key != "" {
		masked := "****"
		if len(key) > 8 {
			masked += key[len(key)-4:]
		}
		s.Metadata.TMDBAPIKey = masked
	}
	if s.Cache.RedisURL != "" {
		if u, err := url.Parse(s.Cache.RedisURL); err == nil {
			s.Cache.RedisURL = u.Redacted()
		} else {
			s.Cache.RedisURL = "****"
		}
	}
	return s
}
