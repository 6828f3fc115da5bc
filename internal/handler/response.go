package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"submission-service/internal/service"
	"submission-service/internal/validation"

	"go.uber.org/zap"
)

const (
	msgInternal       = "Internal Server Error"
	msgSomethingWrong = "Something went wrong!"
	msgUnauthorized   = "Something went wrong! Please Login Again"
	msgTooLarge       = "Payload too large."
	msgTooManyReqs    = "Too many requests, please try again after sometime."
	msgTimeout        = "Request timed out."
	msgAdminExists    = "Admin account already exists. Registration is closed."
	msgBadCredentials = "Invalid credentials"
	msgInvalidData    = "Please provide valid data"
)

var errPayloadTooLarge = errors.New("payload too large")

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    interface{}             `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

func successResponse(data interface{}, message string) Response {
	return Response{Success: true, Message: message, Data: data}
}

func errorResponse(message string) Response {
	return Response{Success: false, Message: message}
}

func respondWithJSON(w http.ResponseWriter, logger *zap.Logger, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// respondWithError maps err onto the envelope. failMessage is used for
// unexpected errors and invalidMessage as the validation headline fallback.
// Internal error text never reaches the client.
func respondWithError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, invalidMessage, failMessage string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		respondWithJSON(w, logger, http.StatusBadRequest, Response{
			Success: false,
			Message: verrs.Headline(invalidMessage),
			Errors:  verrs,
		})
		return
	case errors.Is(err, errPayloadTooLarge):
		respondWithJSON(w, logger, http.StatusRequestEntityTooLarge, errorResponse(msgTooLarge))
		return
	}

	status := statusFor(err)
	message := failMessage
	switch status {
	case http.StatusBadRequest:
		message = messageFor(err)
	case http.StatusUnauthorized:
		message = msgUnauthorized
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	respondWithJSON(w, logger, status, errorResponse(message))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAdminExists), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest
	case service.IsUnauthorized(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	if errors.Is(err, service.ErrAdminExists) {
		return msgAdminExists
	}
	return msgBadCredentials
}

// readBody reads the request body. Bodies over the size ceiling yield
// errPayloadTooLarge.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errPayloadTooLarge
		}
		return nil, validation.Errors{{Message: "Malformed JSON body"}}
	}
	return body, nil
}
