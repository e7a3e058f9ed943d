package formula

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Context supplies the principal amount and named variables for one
// evaluation. Built fresh per posting call, never persisted.
type Context struct {
	Amount    decimal.Decimal
	Variables map[string]decimal.Decimal
}

// NewContext builds a single-variable context from the principal amount.
func NewContext(amount decimal.Decimal) Context {
	return Context{Amount: amount}
}

// NewContextWithVariables builds a context from the principal amount plus
// caller-supplied variables (payroll, invoicing and tax callers pre-populate
// these). The map is copied.
func NewContextWithVariables(amount decimal.Decimal, variables map[string]decimal.Decimal) Context {
	vars := make(map[string]decimal.Decimal, len(variables))
	for name, value := range variables {
		vars[name] = value
	}
	return Context{Amount: amount, Variables: vars}
}

// Merge returns a copy of the context with extra variables added. Extras win
// over already-present names.
func (c Context) Merge(extra map[string]decimal.Decimal) Context {
	if len(extra) == 0 {
		return c
	}
	vars := make(map[string]decimal.Decimal, len(c.Variables)+len(extra))
	for name, value := range c.Variables {
		vars[name] = value
	}
	for name, value := range extra {
		vars[name] = value
	}
	return Context{Amount: c.Amount, Variables: vars}
}

// Lookup resolves a variable reference. The name "amount" (any case) is an
// alias for the principal amount; all other names are case-sensitive.
func (c Context) Lookup(name string) (decimal.Decimal, bool) {
	if strings.EqualFold(name, "amount") {
		return c.Amount, true
	}
	value, ok := c.Variables[name]
	return value, ok
}
