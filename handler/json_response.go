package handler

import (
	"encoding/json"
	"net/http"
)

// StatusFailed is the status field of every error body.
const StatusFailed = "failed"

// ErrorBody is the JSON shape of failed requests.
type ErrorBody struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	ID     string `json:"id,omitempty"`
}

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus sets the HTTP status code.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		if status > 0 {
			r.status = status
		}
	}
}

// JSON encodes v as the response body with status 200 unless overridden.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders {status:"failed", error} with the status mapped from err.
// A 500 hides the error text behind a generic message.
func JSONError(err error, opts ...JSONOption) Response {
	r := &jsonResponse{status: StatusCode(err)}
	for _, opt := range opts {
		opt(r)
	}
	msg := http.StatusText(http.StatusInternalServerError)
	if r.status != http.StatusInternalServerError && err != nil {
		msg = err.Error()
	}
	r.body = ErrorBody{Status: StatusFailed, Error: msg}
	return r
}
