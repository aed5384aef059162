// Package failure carries an HTTP status alongside an error message so that
// services can decide the response code and handlers only render it.
package failure

import (
	"errors"
	"net/http"
)

type Failure struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var (
	ForbiddenError       = New(http.StatusForbidden, "You don't have the required permissions")
	UnauthenticatedError = New(http.StatusUnauthorized, "Full authentication is required to access this resource")
)

func (e *Failure) Error() string {
	return e.Message
}

// New builds a Failure. Use the status specific helpers where one exists.
func New(code int, msg string) *Failure {
	return &Failure{Code: code, Message: msg}
}

// BadRequest converts err into a 400. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

// Validation is a 400 with one message per offending field.
func Validation(msg string, fields map[string]string) error {
	fail := New(http.StatusBadRequest, msg)
	fail.Fields = fields

	return fail
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// ServiceUnavailable reports a dependency that is switched off or unreachable.
func ServiceUnavailable(msg string) error {
	return New(http.StatusServiceUnavailable, msg)
}

// GetCode is the status carried by err, or 500 when err is not a Failure.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

func GetFields(err error) map[string]string {
	if fail, ok := as(err); ok {
		return fail.Fields
	}

	return nil
}

func as(err error) (*Failure, bool) {
	var fail *Failure

	return fail, errors.As(err, &fail)
}
