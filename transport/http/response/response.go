package response

import (
	"encoding/json"
	"net/http"
	"tasktrack/shared/constant"
	"tasktrack/shared/failure"
	"tasktrack/shared/logger"
)

type Error struct {
	Error string `json:"error"`
}

type Message struct {
	Message string `json:"message"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: message})
}

// WithJSON sends the payload as the response body
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, jsonPayload)
}

// WithError sends a response with an error message. Errors that are not a failure.Failure never
// leak their text to the client.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	errMsg := constant.ResponseErrorInternal
	if failure.IsFailure(err) && code != http.StatusInternalServerError {
		errMsg = err.Error()
	}

	response(writer, code, Error{Error: errMsg})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	response(writer, http.StatusTooManyRequests, Error{Error: constant.ResponseErrorRequestLimitExceeded})
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	response(writer, http.StatusServiceUnavailable, Error{Error: constant.ResponseErrorPrepareShutdown})
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	response(writer, http.StatusServiceUnavailable, Error{Error: constant.ResponseErrorUnhealthy})
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
