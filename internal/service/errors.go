package service

import "errors"

// Taxonomía de errores del núcleo. Los handlers HTTP las traducen a
// códigos de estado; los mensajes son aptos para el usuario.

// ValidationError: entrada malformada, rechazada antes de escribir.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// NotFoundError: el recurso referenciado no existe.
type NotFoundError string

func (e NotFoundError) Error() string { return string(e) + " no encontrado" }

// ConflictError: stock insuficiente, transición de estado inválida o
// colisión de código de pedido.
type ConflictError string

func (e ConflictError) Error() string { return string(e) }

// ErrInvalidCredentials se devuelve en logins fallidos sin distinguir
// si el email existe.
var ErrInvalidCredentials = errors.New("credenciales inválidas")

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var v NotFoundError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var v ConflictError
	return errors.As(err, &v)
}
