package errors

import (
	"fmt"
	"net/http"

	crdb "github.com/cockroachdb/errors"
)

// Sentinels. Every error the console returns to an operator is marked with one
// of these so callers can branch with Is.
var (
	ErrNotFound           = crdb.New("not found")
	ErrValidationMissing  = crdb.New("validation missing")
	ErrStorageUnavailable = crdb.New("storage unavailable")
)

var entityNames = map[string]string{
	"client":       "Cliente",
	"plan":         "Plano",
	"server":       "Servidor",
	"template":     "Modelo de mensagem",
	"notification": "Notificação",
	"campaign":     "Campanha",
}

// ErrorBuilder chains context onto an error before it is marked
type ErrorBuilder struct {
	err error
}

// NewErrorf starts a builder from a formatted message
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{err: crdb.NewWithDepthf(1, format, args...)}
}

// WithError starts a builder around an existing error
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithHint attaches the operator-facing text
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = crdb.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err = crdb.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails attaches fields that are safe to show in API responses
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.err = &detailsError{cause: b.err, details: details}
	return b
}

// Mark tags the error with a sentinel and returns it
func (b *ErrorBuilder) Mark(reference error) error {
	return crdb.Mark(b.err, reference)
}

type detailsError struct {
	cause   error
	details map[string]interface{}
}

func (e *detailsError) Error() string { return e.cause.Error() }
func (e *detailsError) Unwrap() error { return e.cause }
func (e *detailsError) Cause() error  { return e.cause }

// NotFound reports an id that no longer exists in the store
func NotFound(entity, id string) error {
	name, ok := entityNames[entity]
	if !ok {
		name = entity
	}
	return NewErrorf("%s %q not found", entity, id).
		WithHintf("%s não encontrado. Atualize a lista e tente novamente.", name).
		WithReportableDetails(map[string]interface{}{"entity": entity, "id": id}).
		Mark(ErrNotFound)
}

// ValidationMissing reports a required field or selection that was left empty
func ValidationMissing(field string) error {
	hint := fmt.Sprintf("Por favor, preencha o campo obrigatório: %s.", field)
	if field == "planId" || field == "serverId" {
		hint = "Por favor, selecione um plano e um servidor."
	}
	return NewErrorf("missing required field %q", field).
		WithHint(hint).
		WithReportableDetails(map[string]interface{}{"field": field}).
		Mark(ErrValidationMissing)
}

// ValidationInvalid reports a field that is present but unusable. It carries
// the same mark as ValidationMissing: both stop the operation before the
// store is touched.
func ValidationInvalid(field, reason string) error {
	return NewErrorf("invalid field %q: %s", field, reason).
		WithHintf("Valor inválido para %s: %s.", field, reason).
		WithReportableDetails(map[string]interface{}{"field": field}).
		Mark(ErrValidationMissing)
}

// StorageUnavailable wraps a failure to read or write the backing store
func StorageUnavailable(cause error, op string) error {
	var err error
	if cause == nil {
		err = crdb.Newf("storage unavailable during %s", op)
	} else {
		err = crdb.Wrapf(cause, "storage unavailable during %s", op)
	}
	return WithError(err).
		WithHint("Armazenamento indisponível. Verifique a conexão e tente novamente.").
		WithReportableDetails(map[string]interface{}{"operation": op}).
		Mark(ErrStorageUnavailable)
}

func Is(err, reference error) bool { return crdb.Is(err, reference) }

func IsNotFound(err error) bool   { return crdb.Is(err, ErrNotFound) }
func IsValidation(err error) bool { return crdb.Is(err, ErrValidationMissing) }
func IsStorage(err error) bool    { return crdb.Is(err, ErrStorageUnavailable) }

// Hint returns the first operator-facing hint, or "" when none was attached
func Hint(err error) string {
	hints := crdb.GetAllHints(err)
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}

// Details returns the reportable details of the outermost detailed error
func Details(err error) map[string]interface{} {
	var d *detailsError
	if crdb.As(err, &d) {
		return d.details
	}
	return nil
}

// ErrorResponse is the JSON body of a failed API call
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HTTPStatus maps an error onto the status code the API answers with
func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusUnprocessableEntity
	case IsStorage(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ToResponse builds the API body for err
func ToResponse(err error) ErrorResponse {
	code := "internal_error"
	switch {
	case IsNotFound(err):
		code = "not_found"
	case IsValidation(err):
		code = "validation_missing"
	case IsStorage(err):
		code = "storage_unavailable"
	}

	msg := Hint(err)
	if msg == "" {
		msg = "Ocorreu um erro inesperado."
	}

	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    code,
			Message: msg,
			Details: Details(err),
		},
	}
}
