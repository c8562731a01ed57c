// Package handler provides HTTP handlers for the ShareIt API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shareit-project/shareit/internal/auth"
	"github.com/shareit-project/shareit/internal/repository"
)

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeErrorMessage writes a JSON error with an explicit status.
func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// requireCaller extracts the caller id set by the auth middleware,
// writing a 400 when the header never arrived.
func requireCaller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	callerID, ok := auth.CallerID(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusBadRequest, "missing "+auth.UserIDHeader+" header")
		return 0, false
	}
	return callerID, true
}

// pathID parses the named URL parameter as an entity id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// Listing defaults applied when from/size are absent.
const (
	defaultFrom = 0
	defaultSize = 20
)

// queryPage parses the from/size pagination parameters. Negative from
// and non-positive size are rejected.
func queryPage(r *http.Request) (repository.Page, error) {
	from, err := queryInt(r, "from", defaultFrom)
	if err != nil || from < 0 {
		return repository.Page{}, errors.New("invalid from parameter")
	}
	size, err := queryInt(r, "size", defaultSize)
	if err != nil || size < 1 {
		return repository.Page{}, errors.New("invalid size parameter")
	}
	return repository.NewPage(from, size), nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
