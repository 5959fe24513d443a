package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// pathID parses the {id} route variable. Content ids are positive.
func pathID(r *http.Request) (int64, error) {
	id, err := pathInt(r)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid content id %q", mux.Vars(r)["id"])
	}
	return id, nil
}

// pathInt parses the {id} route variable as any integer.
func pathInt(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(mux.Vars(r)["id"])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid content id %q", raw)
	}
	return id, nil
}
