// Package response writes the JSON envelope the POS frontend consumes:
//
//	{"ok": true,  "message": "...", "detail": ...}
//	{"ok": true,  "data": {...}}
//	{"ok": false, "message": "...", "detail": "cause"}
package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// OK sends a 200 with a message and an optional detail payload.
func OK(w http.ResponseWriter, message string, detail interface{}) {
	write(w, http.StatusOK, envelope{OK: true, Message: message, Detail: detail})
}

// Created sends a 201 with a message and detail payload.
func Created(w http.ResponseWriter, message string, detail interface{}) {
	write(w, http.StatusCreated, envelope{OK: true, Message: message, Detail: detail})
}

// Data sends a 200 whose payload sits under "data".
func Data(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{OK: true, Data: data})
}

// Error sends a failure envelope with only a message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Message: message})
}

// Fail sends a failure envelope carrying the stringified cause as detail.
func Fail(w http.ResponseWriter, status int, message string, cause error) {
	body := envelope{Message: message}
	if cause != nil {
		body.Detail = cause.Error()
	}
	write(w, status, body)
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}
