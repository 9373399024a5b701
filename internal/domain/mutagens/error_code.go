package mutagens

import (
	m "mutiny.dev/pkg/mutiny/internal/model"
)

// ErrorCodes is the closed vocabulary swapped by the error-code operator.
var ErrorCodes = []string{"0", "-1", "-ENOMEM", "-EINVAL", "-EIO", "-EBUSY"}

// NewErrorCode returns the error-code operator. It only touches a vocabulary
// code returned by a return statement, and swaps it for every other code.
func NewErrorCode() Operator {
	rules := make([]rule, 0, len(ErrorCodes))

	for _, code := range ErrorCodes {
		replacements := make([]string, 0, len(ErrorCodes)-1)

		for _, other := range ErrorCodes {
			if other != code {
				replacements = append(replacements, other)
			}
		}

		rules = append(rules, rule{token: code, replacements: replacements})
	}

	return newTableOperator(m.OperatorErrorCode, rules, errorCodeEligible)
}

func errorCodeEligible(code string, start, end int) bool {
	ret := indexWord(code, "return")
	if ret < 0 || start < ret+len("return") {
		return false
	}

	if b := byteBefore(code, start); isIdentByte(b) || b == '-' || b == '.' {
		return false
	}

	if a := byteAfter(code, end); isIdentByte(a) || a == '.' {
		return false
	}

	return true
}
