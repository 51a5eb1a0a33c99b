// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator so handlers share one
// configured instance.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	return &Validator{
		v: validator.New(),
	}
}

// Struct validates a struct based on its validate tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Messages flattens a validation error into per-field messages suitable
// for a response body. Non-validation errors come back as a single entry.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		if fe.Param() != "" {
			msgs = append(msgs, field+" failed on "+fe.Tag()+"="+fe.Param())
		} else {
			msgs = append(msgs, field+" failed on "+fe.Tag())
		}
	}
	return msgs
}
