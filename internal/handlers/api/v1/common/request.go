// Package common holds request parsing shared by the v1 controllers.
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"cleanearth/internal/services"

	"github.com/go-chi/chi/v5"
)

// MaxBodyBytes caps JSON request bodies
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst. An empty body decodes to
// the zero value when allowEmpty is set.
func DecodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	if r.Body == nil {
		if allowEmpty {
			return nil
		}
		return services.NewValidationError("No JSON data provided", nil)
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return services.NewValidationError("No JSON data provided", err)
		}
		return services.NewValidationError("Invalid request body format", err)
	}
	return nil
}

// PathID parses a positive integer URL parameter
func PathID(r *http.Request, param, label string) (int64, error) {
	return parseID(chi.URLParam(r, param), label)
}

// QueryID parses the ?id= query parameter. present is false when the
// parameter is absent.
func QueryID(r *http.Request, label string) (id int64, present bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get("id"))
	if raw == "" {
		return 0, false, nil
	}
	id, err = parseID(raw, label)
	return id, true, err
}

// RequireQueryID is QueryID with the parameter mandatory
func RequireQueryID(r *http.Request, label string) (int64, error) {
	id, present, err := QueryID(r, label)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, services.NewValidationError(fmt.Sprintf("No %s ID provided", label), nil)
	}
	return id, nil
}

func parseID(raw, label string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, services.NewValidationError(fmt.Sprintf("Invalid %s ID", label), err)
	}
	return id, nil
}
