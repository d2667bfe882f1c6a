package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
)

type ErrorCode string

const (
	CodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	CodeInvalidCriteria   ErrorCode = "INVALID_CRITERIA"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func WriteError(w http.ResponseWriter, err error, log *logger.Logger) {
	status, response := mapError(err)

	if isDomainError(err) {
		log.Warn("domain error",
			"error", err.Error(),
			"code", response.Error.Code,
		)
	} else {
		log.Error("unexpected error",
			"error", err.Error(),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func mapError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrInvalidCriteria):
		return http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    CodeInvalidCriteria,
				Message: err.Error(),
			},
		}

	case errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, ErrorResponse{
			Error: ErrorDetail{
				Code:    CodeSourceUnavailable,
				Message: err.Error(),
			},
		}

	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{
				Code:    CodeNotFound,
				Message: err.Error(),
			},
		}

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    CodeInternal,
				Message: "internal server error",
			},
		}
	}
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrInvalidCriteria) ||
		errors.Is(err, domain.ErrSourceUnavailable) ||
		errors.Is(err, domain.ErrSnapshotNotFound)
}
