package mutagens

import (
	"fmt"
	"strings"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// registry lists every operator in registration order. Generation order
// within a line follows this order.
var registry = []Operator{
	NewArithmetic(),
	NewRelational(),
	NewLogical(),
	NewAssignment(),
	NewPointer(),
	NewErrorCode(),
	NewLock(),
}

// Kinds returns every registered operator kind in registration order.
func Kinds() []m.OperatorKind {
	kinds := make([]m.OperatorKind, 0, len(registry))
	for _, op := range registry {
		kinds = append(kinds, op.Kind())
	}

	return kinds
}

// ForKinds resolves kinds to operators in registration order. No kinds means
// every registered operator.
func ForKinds(kinds ...m.OperatorKind) ([]Operator, error) {
	if len(kinds) == 0 {
		return append([]Operator(nil), registry...), nil
	}

	wanted := make(map[m.OperatorKind]bool, len(kinds))

	for _, kind := range kinds {
		if !known(kind) {
			return nil, fmt.Errorf("unsupported operator kind: %s", kind)
		}

		wanted[kind] = true
	}

	ops := make([]Operator, 0, len(wanted))

	for _, op := range registry {
		if wanted[op.Kind()] {
			ops = append(ops, op)
		}
	}

	return ops, nil
}

func known(kind m.OperatorKind) bool {
	for _, op := range registry {
		if op.Kind() == kind {
			return true
		}
	}

	return false
}

// Expand applies op to one line of a whole file and returns one full text per
// mutant. lineNumber is 1-based; out-of-range lines yield nothing.
func Expand(op Operator, text string, lineNumber int) []string {
	lines := strings.Split(text, "\n")
	if lineNumber < 1 || lineNumber > len(lines) {
		return nil
	}

	var scanner Scanner

	for i := 0; i < lineNumber-1; i++ {
		scanner.Mask(strings.TrimSuffix(lines[i], "\r"))
	}

	raw := lines[lineNumber-1]
	body := strings.TrimSuffix(raw, "\r")
	cr := raw[len(body):]

	line := Line{Number: lineNumber, Text: body, Code: scanner.Mask(body)}
	if !op.Applies(line) {
		return nil
	}

	variants := op.Mutate(line)
	texts := make([]string, 0, len(variants))

	for _, variant := range variants {
		mutated := append([]string(nil), lines...)
		mutated[lineNumber-1] = variant + cr
		texts = append(texts, strings.Join(mutated, "\n"))
	}

	return texts
}
