package domain

import (
	"errors"
	"fmt"
)

// ErrorKind clasifica los errores de negocio. Las capas externas deciden el código HTTP
// a partir del Kind, nunca a partir del texto del mensaje.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidArgument
	KindNotFound
	KindInsufficientStock
	KindConflict
	KindUnauthorized
	KindForbidden
)

// String devuelve el nombre estable del Kind (se usa en logs).
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case KindConflict:
		return "CONFLICT"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}

// Error es el error de dominio etiquetado. Code es un código de negocio estable
// (ej. "INSUFFICIENT_STOCK", "CATEGORY_HAS_PRODUCTS"); Fields enumera fallos por campo.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por Kind; si el objetivo trae Code, también debe coincidir.
// Permite errors.Is(err, domain.ErrNotFound) sobre cualquier NotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// Errores de dominio de referencia (sin dependencias externas). Se usan con errors.Is.
var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "recurso no encontrado"}
	ErrInvalidInput      = &Error{Kind: KindInvalidArgument, Message: "entrada inválida"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "conflicto con el estado actual"}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock, Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "acceso denegado"}
)

// InvalidArgument construye un error de validación.
func InvalidArgument(code, msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Code: code, Message: msg}
}

// InvalidFields construye un error de validación con el detalle por campo.
func InvalidFields(fields map[string]string) *Error {
	return &Error{Kind: KindInvalidArgument, Code: "VALIDATION", Message: "error de validación", Fields: fields}
}

// NotFound construye un error de recurso inexistente.
func NotFound(code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

// Conflict construye un error de conflicto (unicidad, FK-guard).
func Conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

// InsufficientStock construye el error de salida que supera el saldo disponible.
func InsufficientStock(available, requested int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Code:    "INSUFFICIENT_STOCK",
		Message: fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", available, requested),
	}
}

// Internal envuelve un error inesperado de infraestructura.
func Internal(code string, err error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: "error interno", Err: err}
}

// KindOf devuelve el Kind del primer *Error en la cadena; KindInternal si no hay ninguno.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
