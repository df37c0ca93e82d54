// Package apierror provides the error taxonomy shared by services and handlers.
// Services return *Error for every failure the operator should read; anything
// else is treated as an infrastructure failure and never shown to clients.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure.
type Code string

const (
	CodeValidacion    Code = "VALIDACION"
	CodeNegocio       Code = "NEGOCIO"
	CodeConflicto     Code = "CONFLICTO"
	CodeNoAutorizado  Code = "NO_AUTORIZADO"
	CodeNoAutenticado Code = "NO_AUTENTICADO"
	CodeNoEncontrado  Code = "NO_ENCONTRADO"
	CodeInterno       Code = "INTERNO"
)

// MensajeInterno is the only text clients see for infrastructure failures.
const MensajeInterno = "Error interno del servidor"

// HTTPStatus maps a code to its response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidacion:
		return http.StatusUnprocessableEntity
	case CodeNegocio:
		return http.StatusBadRequest
	case CodeConflicto:
		return http.StatusConflict
	case CodeNoAutorizado:
		return http.StatusForbidden
	case CodeNoAutenticado:
		return http.StatusUnauthorized
	case CodeNoEncontrado:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a user-facing failure with a castellano message.
type Error struct {
	Code    Code
	Mensaje string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Mensaje, e.err)
	}
	return e.Mensaje
}

func (e *Error) Unwrap() error { return e.err }

func nuevo(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Mensaje: fmt.Sprintf(format, args...)}
}

func Validacion(format string, args ...any) *Error { return nuevo(CodeValidacion, format, args...) }
func Negocio(format string, args ...any) *Error    { return nuevo(CodeNegocio, format, args...) }
func Conflicto(format string, args ...any) *Error  { return nuevo(CodeConflicto, format, args...) }
func NoAutorizado(format string, args ...any) *Error {
	return nuevo(CodeNoAutorizado, format, args...)
}
func NoAutenticado(format string, args ...any) *Error {
	return nuevo(CodeNoAutenticado, format, args...)
}
func NoEncontrado(format string, args ...any) *Error {
	return nuevo(CodeNoEncontrado, format, args...)
}

// Interno wraps an infrastructure error; the cause is kept for logs only.
func Interno(err error) *Error {
	return &Error{Code: CodeInterno, Mensaje: MensajeInterno, err: err}
}

// Wrap attaches a cause to a classified error.
func Wrap(code Code, err error, format string, args ...any) *Error {
	e := nuevo(code, format, args...)
	e.err = err
	return e
}

// As extracts the first *Error in the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of err, CodeInterno when it is not classified.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInterno
}

// ── Response envelopes ────────────────────────────────────────────────────────

// APIError is the failure half of the discriminated result every endpoint returns.
type APIError struct {
	Success bool   `json:"success"`
	Detail  string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Publico renders err for a client: the message of a classified error, or the
// fixed internal message otherwise.
func Publico(err error) (int, *APIError) {
	e, ok := As(err)
	if !ok || e.Code == CodeInterno {
		return http.StatusInternalServerError, New(MensajeInterno)
	}
	return e.Code.HTTPStatus(), New(e.Mensaje)
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Success bool              `json:"success"`
	Detail  string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
