package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoSourceProvided = errors.New("no order source provided. Use --source-url or a config file")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
)

// MissingFieldError indica que um registro da fonte não possui uma coluna
// obrigatória do esquema de pedidos. O core nunca recebe uma tabela parcial.
type MissingFieldError struct {
	Field string
	Line  int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q missing at source line %d", e.Field, e.Line)
}
