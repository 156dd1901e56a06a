package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that knows the HTTP status it is answered with.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	InvalidIDParam = &Failure{Code: http.StatusBadRequest, Message: "invalid id parameter"}
	ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
)

func (e *Failure) Error() string {
	return e.Message
}

// New returns a Failure with an explicit status code.
func New(code int, message string) error {
	return &Failure{Code: code, Message: message}
}

// BadRequest turns err into a 400. A nil err stays nil.
func BadRequest(err error) error {
	return from(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

// NotFound reports a missing row; msg is shown to the caller as is.
func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

// InternalError turns err into a 500 carrying its message. A nil err stays nil.
func InternalError(err error) error {
	return from(http.StatusInternalServerError, err)
}

// GetCode returns the status of the first Failure in err's chain, 500 otherwise.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

func from(code int, err error) error {
	if err == nil {
		return nil
	}

	return &Failure{Code: code, Message: err.Error()}
}
