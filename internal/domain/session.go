package domain

import (
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"mutiny.dev/pkg/mutiny/internal/domain/mutagens"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

// Session defaults used when a field is left at its zero value.
const (
	DefaultTimeout     = 60 * time.Second
	DefaultRetryBudget = 2
)

// DefaultExtensions are the source extensions scanned when none are given.
var DefaultExtensions = []string{".c", ".h"}

var sessionValidator = newSessionValidator()

// newSessionValidator returns a validator that understands the operatorkind
// tag, which accepts only kinds present in the operator registry.
func newSessionValidator() *validator.Validate {
	v := validator.New()

	err := v.RegisterValidation("operatorkind", func(fl validator.FieldLevel) bool {
		return slices.Contains(mutagens.Kinds(), m.OperatorKind(fl.Field().String()))
	})
	if err != nil {
		panic(fmt.Sprintf("register operatorkind validation: %v", err))
	}

	return v
}

// NormalizeSession fills unset fields with their defaults and validates the
// result.
func NormalizeSession(session m.Session) (m.Session, error) {
	if session.Root == "" {
		session.Root = "."
	}

	if len(session.Extensions) == 0 {
		session.Extensions = append([]string(nil), DefaultExtensions...)
	}

	if len(session.Operators) == 0 {
		session.Operators = mutagens.Kinds()
	}

	if session.Parallelism <= 0 {
		session.Parallelism = runtime.NumCPU()
	}

	if session.Timeout == 0 {
		session.Timeout = DefaultTimeout
	}

	if err := sessionValidator.Struct(session); err != nil {
		return m.Session{}, fmt.Errorf("invalid session: %w", err)
	}

	return session, nil
}
