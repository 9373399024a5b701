package model

// OperatorKind identifies a family of mutation rules.
type OperatorKind string

const (
	// OperatorArithmetic swaps arithmetic operators (+, -, *, /, %, ++, --).
	OperatorArithmetic OperatorKind = "arithmetic"
	// OperatorRelational swaps comparison operators (==, !=, <, >, <=, >=).
	OperatorRelational OperatorKind = "relational"
	// OperatorLogical swaps && and ||.
	OperatorLogical OperatorKind = "logical"
	// OperatorAssignment swaps compound assignment operators.
	OperatorAssignment OperatorKind = "assignment"
	// OperatorPointer drops dereferences and address-of, and turns -> into '.'.
	OperatorPointer OperatorKind = "pointer-dereference"
	// OperatorErrorCode swaps returned error codes from a fixed vocabulary.
	OperatorErrorCode OperatorKind = "error-code"
	// OperatorLock swaps locking primitives from a fixed vocabulary.
	OperatorLock OperatorKind = "lock-mechanism"
)

// Mutation is one candidate defect: a single line of one file replaced by a
// mutated variant. It is immutable once generated.
type Mutation struct {
	ID           string
	Source       File
	Line         int
	Kind         OperatorKind
	Index        int // position in the operator's replacement table for this line
	OriginalLine string
	MutatedLine  string
}
