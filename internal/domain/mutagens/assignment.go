package mutagens

import (
	m "mutiny.dev/pkg/mutiny/internal/model"
)

// NewAssignment returns the compound assignment operator.
func NewAssignment() Operator {
	return newTableOperator(m.OperatorAssignment, []rule{
		{token: "+=", replacements: []string{"-="}},
		{token: "-=", replacements: []string{"+="}},
		{token: "*=", replacements: []string{"/="}},
		{token: "/=", replacements: []string{"*="}},
		{token: "%=", replacements: []string{"/="}},
		{token: "&=", replacements: []string{"|="}},
		{token: "|=", replacements: []string{"&="}},
		{token: "<<=", replacements: []string{">>="}},
		{token: ">>=", replacements: []string{"<<="}},
	}, func(code string, start, end int) bool {
		return isolated(code, start, end, "+-*/%&|^<>=!", "=")
	})
}
