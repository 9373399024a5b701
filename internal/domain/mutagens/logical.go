package mutagens

import (
	m "mutiny.dev/pkg/mutiny/internal/model"
)

// NewLogical returns the logical operator.
func NewLogical() Operator {
	return newTableOperator(m.OperatorLogical, []rule{
		{token: "&&", replacements: []string{"||"}},
		{token: "||", replacements: []string{"&&"}},
	}, func(code string, start, end int) bool {
		return isolated(code, start, end, "&|", "&|=")
	})
}
