// internal/util/errors.go
// Definisi error aplikasi standar + pemetaan error engine DCA ke kode/HTTP status

package util

import (
	"errors"
	"fmt"
	"net/http"

	"dca-reserves/internal/decline"
)

type AppError struct {
	Code    string `json:"error"` // e.g., "bad_input", "not_found", "internal"
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e AppError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus default 500 kalau Status kosong.
func (e AppError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

func BadInput(msg string) AppError {
	return AppError{Code: "bad_input", Message: msg, Status: http.StatusBadRequest}
}
func NotFound(msg string) AppError {
	return AppError{Code: "not_found", Message: msg, Status: http.StatusNotFound}
}
func Internal(msg string) AppError {
	return AppError{Code: "internal", Message: msg, Status: http.StatusInternalServerError}
}
func Unavailable(msg string) AppError {
	return AppError{Code: "unavailable", Message: msg, Status: http.StatusServiceUnavailable}
}

// FromDecline memetakan error engine ke AppError. Error lain -> internal.
func FromDecline(err error) AppError {
	var ae AppError
	if errors.As(err, &ae) {
		return ae
	}
	code, status := "internal", http.StatusInternalServerError
	switch {
	case errors.Is(err, decline.ErrInsufficientData):
		code, status = "insufficient_data", http.StatusUnprocessableEntity
	case errors.Is(err, decline.ErrDegenerateRegression):
		code, status = "degenerate_regression", http.StatusUnprocessableEntity
	case errors.Is(err, decline.ErrInvalidModelParameter):
		code, status = "invalid_model_parameter", http.StatusBadRequest
	case errors.Is(err, decline.ErrNonPositiveForecastRate):
		code, status = "non_positive_forecast_rate", http.StatusUnprocessableEntity
	case errors.Is(err, decline.ErrUnresolvedCutoff):
		code, status = "unresolved_cutoff", http.StatusOK
	case errors.Is(err, decline.ErrInvalidObservation):
		code, status = "invalid_observation", http.StatusUnprocessableEntity
	case errors.Is(err, decline.ErrInvalidScenario):
		code, status = "invalid_scenario", http.StatusBadRequest
	}
	return AppError{Code: code, Message: err.Error(), Status: status}
}
