package mutagens

import (
	m "mutiny.dev/pkg/mutiny/internal/model"
)

// NewRelational returns the relational operator.
func NewRelational() Operator {
	return newTableOperator(m.OperatorRelational, []rule{
		{token: "==", replacements: []string{"!=", ">", "<", ">=", "<="}},
		{token: "!=", replacements: []string{"==", ">", "<", ">=", "<="}},
		{token: ">", replacements: []string{"<", ">=", "<=", "==", "!="}},
		{token: "<", replacements: []string{">", ">=", "<=", "==", "!="}},
		{token: ">=", replacements: []string{"<=", ">", "<", "==", "!="}},
		{token: "<=", replacements: []string{">=", ">", "<", "==", "!="}},
	}, func(code string, start, end int) bool {
		// Rejects ->, shifts and shift-assignments.
		return isolated(code, start, end, "<>=!-", "<>=")
	})
}
