package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrInvalidCommand = errors.New("comando no reconocido")
)

// ParseError describe un valor numérico o de fecha mal formado (CSV o terminal).
// Line es la línea del archivo CSV (0 si el valor vino de la terminal).
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ParseError.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("línea %d: campo %s: valor %q inválido: %v", e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("campo %s: valor %q inválido: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ParseError) Is(target error) bool { return target == ErrInvalidInput }
