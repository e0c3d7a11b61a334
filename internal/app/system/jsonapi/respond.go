// internal/app/system/jsonapi/respond.go
package jsonapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Realm is the basic-auth realm advertised on 401 responses.
const Realm = `Basic realm="api.hack24.co.uk"`

// Send writes doc as a JSON:API body with the given status code.
func Send(w http.ResponseWriter, status int, doc any) {
	w.Header().Set("Content-Type", MediaType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(doc)
}

// OK writes a 200 response with the given document.
func OK(w http.ResponseWriter, doc any) {
	Send(w, http.StatusOK, doc)
}

// Created writes a 201 response with the given document.
func Created(w http.ResponseWriter, doc any) {
	Send(w, http.StatusCreated, doc)
}

// NoContent writes a bare 204 with no body and no content type.
func NoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// SendError writes a single-error JSON:API document.
func SendError(w http.ResponseWriter, status int, title string, detail ...string) {
	errObj := ErrorObject{
		Status: strconv.Itoa(status),
		Title:  title,
	}
	if len(detail) > 0 {
		errObj.Detail = detail[0]
	}
	Send(w, status, TopLevelDocument{Errors: []ErrorObject{errObj}})
}

// BadRequest writes a 400 with an optional detail message.
func BadRequest(w http.ResponseWriter, detail ...string) {
	SendError(w, http.StatusBadRequest, "Bad request.", detail...)
}

// Unauthorized writes a 401 with the fixed realm challenge. The response
// is the same for every resource so a missing header is never ambiguous.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", Realm)
	SendError(w, http.StatusUnauthorized, "Unauthorized.", "An authentication header is required.")
}

// Forbidden writes a 403. Every classification failure produces this
// identical response; callers must not leak which check failed.
func Forbidden(w http.ResponseWriter) {
	SendError(w, http.StatusForbidden, "Access is forbidden.", "You are not permitted to perform that action.")
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter) {
	SendError(w, http.StatusNotFound, "Resource not found.")
}

// Conflict writes a 409 for a unique-key collision.
func Conflict(w http.ResponseWriter) {
	SendError(w, http.StatusConflict, "Resource ID already exists.")
}

// InternalServerError writes an opaque 500. The error object carries a
// fresh incident id so a client report can reference the failure.
func InternalServerError(w http.ResponseWriter) {
	Send(w, http.StatusInternalServerError, TopLevelDocument{Errors: []ErrorObject{{
		ID:     uuid.NewString(),
		Status: strconv.Itoa(http.StatusInternalServerError),
		Title:  "An internal server error occurred.",
	}}})
}
