// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/tomtom215/dinnerroulette/internal/auth"
	"github.com/tomtom215/dinnerroulette/internal/backup"
	"github.com/tomtom215/dinnerroulette/internal/catalog"
	"github.com/tomtom215/dinnerroulette/internal/logging"
	"github.com/tomtom215/dinnerroulette/internal/models"
	"github.com/tomtom215/dinnerroulette/internal/places"
	"github.com/tomtom215/dinnerroulette/internal/roulette"
	"github.com/tomtom215/dinnerroulette/internal/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

var errBodyRequired = errors.New("request body is required")

// respondJSON writes v with the given status. API responses are never cached.
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes a {success:false, error} body.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Success: false, Error: message})
}

// respondErr maps a domain error onto a status code and message. notFound
// is the message used for store.ErrNotFound.
func respondErr(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var cooldown *roulette.CooldownError
	switch {
	case errors.As(err, &cooldown):
		w.Header().Set("Retry-After", strconv.Itoa(cooldown.SecondsRemaining))
		respondJSON(w, http.StatusTooManyRequests, models.ErrorResponse{
			Success:          false,
			Error:            fmt.Sprintf("Please wait %d seconds before spinning again", cooldown.SecondsRemaining),
			SecondsRemaining: cooldown.SecondsRemaining,
		})
		return

	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, notFound)
	case errors.Is(err, errBodyRequired):
		respondError(w, http.StatusBadRequest, "Request body is required")
	case errors.Is(err, catalog.ErrInvalid):
		respondError(w, http.StatusBadRequest, userMessage(strings.TrimPrefix(err.Error(), catalog.ErrInvalid.Error()+": ")))
	case errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, catalog.ErrCategoryExists),
		errors.Is(err, auth.ErrInvalidName),
		errors.Is(err, backup.ErrInvalidName):
		respondError(w, http.StatusBadRequest, userMessage(err.Error()))
	case errors.Is(err, catalog.ErrDuplicate):
		respondError(w, http.StatusConflict, userMessage(err.Error()))

	case errors.Is(err, backup.ErrBackupNotFound):
		respondError(w, http.StatusNotFound, "Backup file not found")
	case errors.Is(err, backup.ErrDisabled):
		respondError(w, http.StatusServiceUnavailable, "Backups are not enabled")

	case errors.Is(err, places.ErrNotFound):
		respondError(w, http.StatusNotFound, "Place not found")
	case errors.Is(err, places.ErrDisabled):
		respondError(w, http.StatusServiceUnavailable, "Place lookup is not configured")
	case errors.Is(err, places.ErrUpstream):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Places provider failed")
		respondError(w, http.StatusBadGateway, "Place lookup is temporarily unavailable")

	case errors.Is(err, context.Canceled):
		// client went away; nobody reads the body
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Request canceled")
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// userMessage capitalizes the first letter of an error string.
func userMessage(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// decodeJSON reads a JSON body into v. An empty body is errBodyRequired;
// malformed JSON is a catalog.ErrInvalid so it maps to 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errBodyRequired
		}
		return fmt.Errorf("%w: malformed JSON body", catalog.ErrInvalid)
	}
	return nil
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return n
}

// scopeFromQuery reads the category and distance filters.
func scopeFromQuery(r *http.Request) (models.Scope, error) {
	q := r.URL.Query()
	d, ok := models.ParseDistance(q.Get("distance"))
	if !ok {
		return models.Scope{}, fmt.Errorf("%w: invalid distance. Must be one of: %s", catalog.ErrInvalid, distanceList())
	}
	return models.Scope{
		Category: strings.ToLower(strings.TrimSpace(q.Get("category"))),
		Distance: d,
	}, nil
}

func distanceList() string {
	names := make([]string, len(models.Distances))
	for i, d := range models.Distances {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

// emptyPoolMessage describes the filters that left nothing to draw.
func emptyPoolMessage(scope models.Scope) string {
	var filters []string
	if scope.Category != "" {
		filters = append(filters, fmt.Sprintf("category '%s'", scope.Category))
	}
	if scope.Distance != "" {
		filters = append(filters, fmt.Sprintf("distance '%s'", scope.Distance))
	}
	if len(filters) == 0 {
		return "No restaurants available"
	}
	return "No restaurants available with " + strings.Join(filters, " and ")
}
