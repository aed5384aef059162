// Package response writes the JSON envelopes shared by every endpoint.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"etm/shared/constant"
	"etm/shared/failure"
	"etm/shared/logger"
	"etm/shared/timezone"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the body of every failed request. Error holds the status text, or the
// field -> message map of a validation failure.
type Error struct {
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Error     any    `json:"error"`
	Timestamp string `json:"timestamp"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError renders err with the status it carries. Server side errors that were not
// raised as a Failure on purpose are logged and replaced by a generic message.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	body := Error{
		Message:   err.Error(),
		Status:    code,
		Error:     http.StatusText(code),
		Timestamp: timezone.Now().Format(constant.DateFormat),
	}

	if !exposed(err, code) {
		logger.ErrorWithStack(err)

		body.Message = constant.ResponseErrorInternal
	}

	if fields := failure.GetFields(err); len(fields) > 0 {
		body.Error = fields
	}

	write(writer, code, body)
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithError(writer, failure.New(http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded))
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithError(writer, failure.ServiceUnavailable(constant.ResponseErrorPrepareShutdown))
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithError(writer, failure.ServiceUnavailable(constant.ResponseErrorUnhealthy))
}

func exposed(err error, code int) bool {
	if code < http.StatusInternalServerError {
		return true
	}

	var fail *failure.Failure

	return errors.As(err, &fail) && code != http.StatusInternalServerError
}

func write(writer http.ResponseWriter, code int, payload any) {
	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		logger.ErrorWithStack(err)
	}
}
