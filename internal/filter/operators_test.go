package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperatorRegistry_ResolveOperator(t *testing.T) {
	registry := NewOperatorRegistry(DefaultOperators())

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{input: "eq", want: OperatorEq, ok: true},
		{input: "=", want: OperatorEq, ok: true},
		{input: " != ", want: OperatorNeq, ok: true},
		{input: "!*", want: OperatorNeqOrNull, ok: true},
		{input: "$", want: OperatorEndsWith, ok: true},
		{input: "like", ok: false},
	}

	for _, tt := range tests {
		got, ok := registry.ResolveOperator(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestOperatorRegistry_Symbol(t *testing.T) {
	registry := NewOperatorRegistry(DefaultOperators())

	symbol, ok := registry.Symbol(OperatorStartsWith)
	assert.True(t, ok)
	assert.Equal(t, "^", symbol)
	assert.Len(t, registry.Names(), 14)
}
