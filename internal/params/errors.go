package params

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters is matched by every ConfigurationError.
var ErrInvalidParameters = errors.New("params: invalid parameter set")

// ConfigurationError describes a malformed parameter set.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("params: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidParameters
}
