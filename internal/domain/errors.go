package domain

import "errors"

// Errores de dominio (sin dependencias externas). El motor de stock nunca los
// recupera localmente: cada uno se propaga al caller de commit, que decide.
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrAlreadyFinalized        = errors.New("el movimiento ya fue finalizado")
	ErrUnsupportedDocumentType = errors.New("tipo de documento no soportado")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrStorageFailure          = errors.New("fallo al aplicar la unidad atómica")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUserNotFound            = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
)
