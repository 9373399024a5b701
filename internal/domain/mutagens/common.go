// Package mutagens provides the line-level mutation operators.
package mutagens

import (
	"sort"
	"strings"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// Line is one source line as seen by an operator.
type Line struct {
	Number int
	// Text is the original line without its line terminator.
	Text string
	// Code is Text with comments and string literals blanked out. It has the
	// same length as Text, so offsets found in Code are valid in Text.
	Code string
}

// Operator is a stateless mutation rule. Mutate returns every distinct mutated
// variant of the line in replacement-table order and never the line itself.
type Operator interface {
	Kind() m.OperatorKind
	Applies(line Line) bool
	Mutate(line Line) []string
}

type rule struct {
	token        string
	replacements []string
}

// matchFunc reports whether the token at code[start:end] may be mutated.
type matchFunc func(code string, start, end int) bool

// tableOperator replaces the first eligible occurrence of any token in its
// table. At each position the longest token is tried first so that >= is never
// read as > followed by =.
type tableOperator struct {
	kind     m.OperatorKind
	rules    []rule
	eligible matchFunc
}

func newTableOperator(kind m.OperatorKind, rules []rule, eligible matchFunc) *tableOperator {
	sorted := make([]rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].token) > len(sorted[j].token)
	})

	return &tableOperator{kind: kind, rules: sorted, eligible: eligible}
}

func (o *tableOperator) Kind() m.OperatorKind {
	return o.kind
}

func (o *tableOperator) Applies(line Line) bool {
	_, _, ok := o.find(line.Code)
	return ok
}

func (o *tableOperator) Mutate(line Line) []string {
	start, r, ok := o.find(line.Code)
	if !ok {
		return nil
	}

	end := start + len(r.token)
	variants := make([]string, 0, len(r.replacements))

	for _, replacement := range r.replacements {
		variants = append(variants, line.Text[:start]+replacement+line.Text[end:])
	}

	return distinct(line.Text, variants)
}

func (o *tableOperator) find(code string) (int, rule, bool) {
	for pos := 0; pos < len(code); pos++ {
		for _, r := range o.rules {
			if !strings.HasPrefix(code[pos:], r.token) {
				continue
			}

			if o.eligible == nil || o.eligible(code, pos, pos+len(r.token)) {
				return pos, r, true
			}
		}
	}

	return 0, rule{}, false
}

// distinct drops identity and duplicate variants while keeping order.
func distinct(original string, variants []string) []string {
	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, len(variants))

	for _, v := range variants {
		if v == original {
			continue
		}

		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

func byteBefore(code string, start int) byte {
	if start <= 0 {
		return 0
	}

	return code[start-1]
}

func byteAfter(code string, end int) byte {
	if end >= len(code) {
		return 0
	}

	return code[end]
}

// isolated reports whether the token is not glued to neighbouring operator
// characters, e.g. the > in -> or >>.
func isolated(code string, start, end int, before, after string) bool {
	if b := byteBefore(code, start); b != 0 && strings.IndexByte(before, b) >= 0 {
		return false
	}

	if a := byteAfter(code, end); a != 0 && strings.IndexByte(after, a) >= 0 {
		return false
	}

	return true
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// wordBounded reports whether code[start:end] is not part of a longer identifier.
func wordBounded(code string, start, end int) bool {
	return !isIdentByte(byteBefore(code, start)) && !isIdentByte(byteAfter(code, end))
}

// unaryKeywords are words after which an operator starts an operand.
var unaryKeywords = map[string]struct{}{
	"return": {}, "case": {}, "sizeof": {}, "else": {}, "do": {}, "goto": {},
	"int": {}, "char": {}, "void": {}, "long": {}, "short": {}, "unsigned": {},
	"signed": {}, "const": {}, "float": {}, "double": {}, "bool": {}, "static": {},
	"volatile": {}, "u8": {}, "u16": {}, "u32": {}, "u64": {}, "s8": {}, "s16": {},
	"s32": {}, "s64": {}, "size_t": {},
}

// prefixPosition reports whether an operator at start sits where an operand is
// expected (so it is unary), rather than between two operands.
func prefixPosition(code string, start int) bool {
	i := start - 1
	for i >= 0 && (code[i] == ' ' || code[i] == '\t') {
		i--
	}

	if i < 0 {
		return true
	}

	prev := code[i]
	if prev == ']' {
		return false
	}

	if prev == ')' {
		return castBefore(code, i)
	}

	if !isIdentByte(prev) {
		return true
	}

	j := i
	for j >= 0 && isIdentByte(code[j]) {
		j--
	}

	_, keyword := unaryKeywords[code[j+1:i+1]]

	return keyword
}

// castTypeWords mark a parenthesised group as a type name.
var castTypeWords = map[string]struct{}{
	"int": {}, "char": {}, "void": {}, "long": {}, "short": {}, "unsigned": {},
	"signed": {}, "const": {}, "float": {}, "double": {}, "bool": {}, "volatile": {},
	"struct": {}, "union": {}, "enum": {}, "u8": {}, "u16": {}, "u32": {}, "u64": {},
	"s8": {}, "s16": {}, "s32": {}, "s64": {},
}

// statementKeywords may directly precede a cast, as in "return (int)-x".
var statementKeywords = map[string]struct{}{
	"return": {}, "case": {}, "else": {}, "do": {},
}

// castBefore reports whether the ')' at closeIdx closes a cast such as
// "(int)" or "(struct node *)". Type names are recognised by keyword, a _t
// suffix or trailing stars; "(x)" and "sizeof(int)" are operands.
func castBefore(code string, closeIdx int) bool {
	open := strings.LastIndexByte(code[:closeIdx], '(')
	if open < 0 {
		return false
	}

	inner := strings.TrimSpace(code[open+1 : closeIdx])
	base := strings.TrimRight(inner, "* \t")

	words := strings.Fields(base)
	if len(words) == 0 {
		return false
	}

	typed := len(base) < len(inner)

	for _, word := range words {
		if !isIdentifier(word) {
			return false
		}

		if _, ok := castTypeWords[word]; ok || strings.HasSuffix(word, "_t") {
			typed = true
		}
	}

	if !typed {
		return false
	}

	k := open - 1
	for k >= 0 && (code[k] == ' ' || code[k] == '\t') {
		k--
	}

	if k < 0 || !isIdentByte(code[k]) {
		return true
	}

	j := k
	for j >= 0 && isIdentByte(code[j]) {
		j--
	}

	_, statement := statementKeywords[code[j+1:k+1]]

	return statement
}

func isIdentifier(word string) bool {
	if word == "" || (word[0] >= '0' && word[0] <= '9') {
		return false
	}

	for i := 0; i < len(word); i++ {
		if !isIdentByte(word[i]) {
			return false
		}
	}

	return true
}

// indexWord returns the offset of the first whole-word occurrence of word.
func indexWord(code, word string) int {
	offset := 0

	for {
		idx := strings.Index(code[offset:], word)
		if idx < 0 {
			return -1
		}

		start := offset + idx
		if wordBounded(code, start, start+len(word)) {
			return start
		}

		offset = start + len(word)
	}
}
