package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds. Handlers never branch on raw store errors; everything is
// funneled through Classify and mapped to one of these.
const (
	KindValidation   = "validation_error"
	KindNotFound     = "not_found"
	KindTransient    = "database_unavailable"
	KindConstraint   = "constraint_violation"
	KindSchema       = "schema_error"
	KindUnclassified = "internal_error"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the single error shape the HTTP boundary understands. The
// wrapped error keeps full store detail for the log sink only.
type APIError struct {
	Kind    string
	Status  int
	Message string
	Fields  []FieldError
	err     error
}

func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.err }

// NewValidationError builds a 400-class error with optional field detail.
func NewValidationError(message string, fields ...FieldError) *APIError {
	return &APIError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message, Fields: fields}
}

// NewNotFoundError builds a 404-class error for a missing entity.
func NewNotFoundError(entity, key string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s %q not found", entity, key),
	}
}

// Postgres SQLSTATE codes the classifier distinguishes.
const (
	pgUniqueViolation  = "23505"
	pgFKViolation      = "23503"
	pgUndefinedTable   = "42P01"
	pgUndefinedColumn  = "42703"
	pgTooManyConns     = "53300"
	pgCannotConnectNow = "57P03"
)

// Classify maps an arbitrary error from the store or core logic onto the
// taxonomy. Already-classified errors pass through unchanged. The original
// error stays wrapped so the boundary can log it in full.
func Classify(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &APIError{Kind: KindNotFound, Status: http.StatusNotFound, Message: "record not found", err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &APIError{Kind: KindConstraint, Status: http.StatusConflict, Message: "duplicate record", err: err}
		case pgFKViolation:
			return &APIError{Kind: KindConstraint, Status: http.StatusBadRequest, Message: "referenced record does not exist", err: err}
		case pgUndefinedTable, pgUndefinedColumn:
			// Deployment/migration defect, not a request defect.
			return &APIError{Kind: KindSchema, Status: http.StatusInternalServerError, Message: "database schema error", err: err}
		case pgTooManyConns, pgCannotConnectNow:
			return &APIError{Kind: KindTransient, Status: http.StatusServiceUnavailable, Message: "database temporarily unavailable", err: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindTransient, Status: http.StatusServiceUnavailable, Message: "database temporarily unavailable", err: err}
	}

	return &APIError{Kind: KindUnclassified, Status: http.StatusInternalServerError, Message: "internal error", err: err}
}
