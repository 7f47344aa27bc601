package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/theoremus-urban-solutions/sldm/utils"
)

type errorPayload struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg, Timestamp: utils.Iso8601Now()})
}
