package mutagens

import (
	"strings"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

type pointerOperator struct{}

// NewPointer returns the pointer-dereference operator. It produces up to three
// mutants per line: the first dereference dropped, the first -> turned into a
// member access, and the first address-of dropped.
func NewPointer() Operator {
	return pointerOperator{}
}

func (pointerOperator) Kind() m.OperatorKind {
	return m.OperatorPointer
}

func (p pointerOperator) Applies(line Line) bool {
	return len(p.Mutate(line)) > 0
}

func (pointerOperator) Mutate(line Line) []string {
	var variants []string

	if i := findUnaryPrefix(line.Code, '*'); i >= 0 {
		variants = append(variants, line.Text[:i]+line.Text[i+1:])
	}

	if i := strings.Index(line.Code, "->"); i >= 0 {
		variants = append(variants, line.Text[:i]+"."+line.Text[i+2:])
	}

	if i := findUnaryPrefix(line.Code, '&'); i >= 0 {
		variants = append(variants, line.Text[:i]+line.Text[i+1:])
	}

	return distinct(line.Text, variants)
}

// findUnaryPrefix returns the offset of the first op used as a prefix operator
// directly in front of an identifier, or -1.
func findUnaryPrefix(code string, op byte) int {
	for i := 0; i < len(code); i++ {
		if code[i] != op {
			continue
		}

		next := byteAfter(code, i+1)
		if next == 0 || next == op || !isIdentByte(next) || (next >= '0' && next <= '9') {
			continue
		}

		if byteBefore(code, i) == op {
			continue
		}

		if prefixPosition(code, i) {
			return i
		}
	}

	return -1
}
