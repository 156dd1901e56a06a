// Package response writes the JSON envelopes every endpoint answers with.
package response

import (
	"encoding/json"
	"net/http"
	"vprime/shared/constant"
	"vprime/shared/failure"
	"vprime/shared/logger"
)

// Error is the body of every non-2xx answer.
type Error struct {
	Error string `json:"error,omitempty"`
}

// Message is the body of answers that carry no data.
type Message struct {
	Message string `json:"message,omitempty"`
}

func WithMessage(w http.ResponseWriter, code int, message string) {
	write(w, code, Message{Message: message})
}

func WithJSON(w http.ResponseWriter, code int, payload any) {
	write(w, code, payload)
}

// WithError answers with the status carried by err, or 500 when it has none.
func WithError(w http.ResponseWriter, err error) {
	write(w, failure.GetCode(err), Error{Error: err.Error()})
}

func WithRequestLimitExceeded(w http.ResponseWriter) {
	WithMessage(w, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(w http.ResponseWriter) {
	WithMessage(w, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
