// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP helpers shared by the API handlers: JSON
// encoding and decoding, request validation, URL parameters, HTML
// sanitising and health checks.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nukgsz/schoolsite/internal/middleware"
)

// MaxJSONBody caps JSON request bodies.
const MaxJSONBody = 1 << 20

// ErrInvalidJSON is returned by DecodeJSON for malformed bodies.
var ErrInvalidJSON = errors.New("Invalid JSON body")

// Response is the success envelope.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries list metadata.
type Meta struct {
	Total    int  `json:"total"`
	Fallback bool `json:"fallback,omitempty"`
}

// ValidationErrorResponse is the 422 body.
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// DecodeJSON decodes the request body into v. An empty body decodes to the
// zero value.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

// DecodeJSONOrError decodes the body and writes a 400 on failure.
// Returns false if the response has been written.
func DecodeJSONOrError(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := DecodeJSON(w, r, v); err != nil {
		WriteError(w, http.StatusBadRequest, ErrInvalidJSON.Error())
		return false
	}
	return true
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteData writes {"data": data}.
func WriteData(w http.ResponseWriter, statusCode int, data any) {
	WriteJSON(w, statusCode, Response{Data: data})
}

// WriteList writes {"data": items, "meta": {"total": n}}.
func WriteList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, http.StatusOK, Response{Data: items, Meta: &Meta{Total: len(items)}})
}

// WriteError writes {"error": message}.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	middleware.WriteError(w, statusCode, message)
}

// WriteValidationError writes a 422 with per-field messages.
func WriteValidationError(w http.ResponseWriter, details map[string]string) {
	WriteJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}

// NotFound writes a JSON 404. It is used as the router's NotFound handler.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed writes a JSON 405.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// ServerError logs err and writes a 500. In development the message
// includes the cause.
func ServerError(w http.ResponseWriter, r *http.Request, dev bool, message string, err error) {
	slog.ErrorContext(r.Context(), message, "error", err, "method", r.Method, "path", r.URL.Path)
	if dev && err != nil {
		message = message + ": " + err.Error()
	}
	WriteError(w, http.StatusInternalServerError, message)
}
