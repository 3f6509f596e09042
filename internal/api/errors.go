package api

import (
	"fmt"
	"net/http"
)

// ApiError is the JSON error body returned by every failing endpoint. Code
// is a stable machine-readable identifier; Message is for humans. The
// wrapped error never reaches the client.
type ApiError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func NewBadRequestError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    "bad request",
	}
}

func NewMissingFieldsError(message string) *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Code:       "MISSING_FIELDS",
		Message:    message,
	}
}

func NewMissingParamsError(message string) *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Code:       "MISSING_PARAMS",
		Message:    message,
	}
}

func NewWeakPasswordError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Code:       "WEAK_PASSWORD",
		Message:    "password must be at least 6 characters",
	}
}

func NewInvalidCredentialsError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusUnauthorized,
		Code:       "INVALID_CREDENTIALS",
		Message:    "incorrect username or password",
	}
}

func NewUnauthorizedError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    "invalid or expired session",
	}
}

func NewAlreadyExistsError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusConflict,
		Code:       "ALREADY_EXISTS",
		Message:    "username or email already exists",
	}
}

func NewInternalServerError(err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusInternalServerError,
		Code:       "SERVER_ERROR",
		Message:    "internal server error",
		Err:        err,
	}
}
