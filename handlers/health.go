package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"marquee/services/scheduler"
)

type schedulerStatus interface {
	Status() []scheduler.TaskStatus
}

type HealthHandler struct {
	rdb        *redis.Client
	configured bool
	jobs       schedulerStatus
	startAt    time.Time
}

// NewHealthHandler reports on the catalog key, the optional Redis cache
// and the scheduled jobs. rdb and jobs may be nil.
func NewHealthHandler(catalogConfigured bool, rdb *redis.Client, jobs schedulerStatus) *HealthHandler {
	return &HealthHandler{rdb: rdb, configured: catalogConfigured, jobs: jobs, startAt: time.Now()}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	catalog := "up"
	if !h.configured {
		catalog = "fallback"
	}
	checks := map[string]any{
		"catalog": map[string]string{"status": catalog},
		"redis":   checkRedis(ctx, h.rdb),
	}
	if h.jobs != nil {
		checks["jobs"] = h.jobs.Status()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
	})
}

func checkRedis(ctx context.Context, rdb *redis.Client) map[string]any {
	if rdb == nil {
		return map[string]any{"status": "disabled"}
	}

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return map[string]any{"status": "down", "latency_ms": latency, "error": "connection failed"}
	}
	return map[string]any{"status": "up", "latency_ms": latency}
}
