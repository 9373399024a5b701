package mutagens

import (
	"strings"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// NewArithmetic returns the arithmetic operator. Binary operators only fire
// between two operands, so unary minus and dereferences are left alone.
func NewArithmetic() Operator {
	return newTableOperator(m.OperatorArithmetic, []rule{
		{token: "++", replacements: []string{"--"}},
		{token: "--", replacements: []string{"++"}},
		{token: "+", replacements: []string{"-", "*", "/", "%"}},
		{token: "-", replacements: []string{"+", "*", "/", "%"}},
		{token: "*", replacements: []string{"+", "-", "/", "%"}},
		{token: "/", replacements: []string{"+", "-", "*", "%"}},
		{token: "%", replacements: []string{"+", "-", "*", "/"}},
	}, arithmeticEligible)
}

func arithmeticEligible(code string, start, end int) bool {
	if end-start == 2 {
		return isolated(code, start, end, "+-", "+-=>")
	}

	if !isolated(code, start, end, "+-*/%=<>!&|^", "+-*/%=>&|") {
		return false
	}

	// "(struct node *)" has no right operand.
	if next := strings.TrimLeft(code[end:], " \t"); next != "" && strings.IndexByte("),];", next[0]) >= 0 {
		return false
	}

	return !prefixPosition(code, start)
}
