package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/contabil/internal/adapter/http/dto"
	"github.com/iho/contabil/internal/domain"
	"github.com/iho/contabil/internal/infrastructure/auth"
)

// SystemOperator authors postings made without an authenticated operator.
const SystemOperator = "system"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status its domain error maps to.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeError(w, mapDomainError(err), message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrParentNotFound):
		return http.StatusUnprocessableEntity
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDuplicateAccountCode):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnclassifiable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidEntry),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidRule),
		errors.Is(err, domain.ErrInvalidAccountCode),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidAccountInput),
		errors.Is(err, domain.ErrInvalidDescription):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (*dto.Date, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil, nil
	}
	d, err := dto.ParseDate(val)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseEntryFilter reads the from, to and account_id query parameters.
func parseEntryFilter(r *http.Request) (domain.EntryFilter, error) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		return domain.EntryFilter{}, err
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		return domain.EntryFilter{}, err
	}

	filter := domain.EntryFilter{AccountID: strings.TrimSpace(r.URL.Query().Get("account_id"))}
	if from != nil {
		filter.From = from.Ptr()
	}
	if to != nil {
		filter.To = to.Ptr()
	}
	return filter, nil
}

// operatorID returns the authenticated operator, or SystemOperator.
func operatorID(r *http.Request) string {
	if op, ok := auth.OperatorFromContext(r.Context()); ok {
		return op.ID
	}
	return SystemOperator
}
