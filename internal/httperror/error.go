// Package httperror translates domain errors into HTTP responses.
package httperror

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/moisessepulveda/xplan-backend/internal/amortization"
	"github.com/moisessepulveda/xplan-backend/internal/httputil"
	"github.com/moisessepulveda/xplan-backend/internal/models"
)

type Error struct {
	Message string `json:"error" example:"there is no account matching your query"`
}

func New(e error) Error {
	return Error{
		Message: e.Error(),
	}
}

func NewFromString(s string) Error {
	return Error{
		Message: s,
	}
}

// arithmeticErrors are rejected inputs to the amortization math, not
// server faults.
var arithmeticErrors = []error{
	amortization.ErrTermInvalid,
	amortization.ErrPrincipalNotPositive,
	amortization.ErrRateNegative,
	amortization.ErrExtraAmountInvalid,
	amortization.ErrPaymentTooLow,
	amortization.ErrStrategyInvalid,
}

// Status returns the HTTP status for an error returned by the models,
// ledger, credits or budgets packages.
func Status(err error) int {
	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrStateConflict) {
		return http.StatusConflict
	}

	if errors.Is(err, models.ErrValidation) ||
		errors.Is(err, httputil.ErrInvalidBody) ||
		errors.Is(err, httputil.ErrRequestBodyEmpty) ||
		errors.Is(err, httputil.ErrInvalidUUID) {
		return http.StatusBadRequest
	}

	for _, arithmeticErr := range arithmeticErrors {
		if errors.Is(err, arithmeticErr) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}
