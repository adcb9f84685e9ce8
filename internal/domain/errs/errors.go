// Package errs agrupa los errores de dominio compartidos por todos los módulos.
// Los servicios envuelven estos sentinels con %w; la capa HTTP los traduce a status.
package errs

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
)
