package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as JSON with the given status code and no-cache headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes the `{ "message": ... }` error body the leave
// management backend uses for every non-2xx response.
func WriteMessage(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{"message": msg})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Token responses must never be cached.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
