package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"marquee/services/scheduler"
)

type taskRunner interface {
	Status() []scheduler.TaskStatus
	RunNow(name string) error
}

var _ taskRunner = (*scheduler.Service)(nil)

// ScheduledTasksHandler exposes the background jobs.
type ScheduledTasksHandler struct {
	scheduler taskRunner
}

func NewScheduledTasksHandler(s taskRunner) *ScheduledTasksHandler {
	return &ScheduledTasksHandler{scheduler: s}
}

// ListTasks returns every registered job with its last run.
// GET /api/tasks
func (h *ScheduledTasksHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tasks": h.scheduler.Status()})
}

// RunTask starts a job immediately.
// POST /api/tasks/{name}/run
func (h *ScheduledTasksHandler) RunTask(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.scheduler.RunNow(name); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started", "task": name})
}
