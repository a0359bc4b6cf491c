package filter

import (
	"sort"
	"strings"
)

// Comparison operator names.
const (
	OperatorEq            = "eq"
	OperatorNeq           = "neq"
	OperatorGt            = "gt"
	OperatorLt            = "lt"
	OperatorGte           = "gte"
	OperatorLte           = "lte"
	OperatorExists        = "exists"
	OperatorNeqOrNull     = "neq_or_null"
	OperatorContains      = "contains"
	OperatorNotContains   = "not_contains"
	OperatorStartsWith    = "starts_with"
	OperatorNotStartsWith = "not_starts_with"
	OperatorEndsWith      = "ends_with"
	OperatorNotEndsWith   = "not_ends_with"
)

// DefaultOperators maps operator names to their short symbols.
func DefaultOperators() map[string]string {
	return map[string]string{
		OperatorEq:            "=",
		OperatorNeq:           "!=",
		OperatorGt:            ">",
		OperatorLt:            "<",
		OperatorGte:           ">=",
		OperatorLte:           "<=",
		OperatorExists:        "*",
		OperatorNeqOrNull:     "!*",
		OperatorContains:      "~",
		OperatorNotContains:   "!~",
		OperatorStartsWith:    "^",
		OperatorNotStartsWith: "!^",
		OperatorEndsWith:      "$",
		OperatorNotEndsWith:   "!$",
	}
}

// OperatorRegistry resolves filter operators given either by name or by symbol.
type OperatorRegistry struct {
	symbols map[string]string
	names   map[string]string
}

// NewOperatorRegistry builds a registry from a name -> symbol map.
func NewOperatorRegistry(operators map[string]string) *OperatorRegistry {
	r := &OperatorRegistry{
		symbols: make(map[string]string, len(operators)),
		names:   make(map[string]string, len(operators)),
	}
	for name, symbol := range operators {
		r.symbols[name] = symbol
		if symbol != "" {
			r.names[symbol] = name
		}
	}
	return r
}

// ResolveOperator returns the operator name for a name or symbol.
func (r *OperatorRegistry) ResolveOperator(operator string) (string, bool) {
	operator = strings.TrimSpace(operator)
	if _, ok := r.symbols[operator]; ok {
		return operator, true
	}
	if name, ok := r.names[operator]; ok {
		return name, true
	}
	return "", false
}

// Symbol returns the short symbol of a named operator.
func (r *OperatorRegistry) Symbol(name string) (string, bool) {
	symbol, ok := r.symbols[name]
	return symbol, ok
}

// Names returns all operator names, sorted.
func (r *OperatorRegistry) Names() []string {
	names := make([]string, 0, len(r.symbols))
	for name := range r.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
