package formula_test

import (
	"testing"

	"github.com/artivisi/aplikasi-akunting-sub005/internal/core/formula"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctx(amount int64) formula.Context {
	return formula.NewContext(decimal.NewFromInt(amount))
}

func TestEvaluate_Passthrough(t *testing.T) {
	testCases := []struct {
		name    string
		formula string
	}{
		{name: "empty formula", formula: ""},
		{name: "blank formula", formula: "   "},
		{name: "bare amount", formula: "amount"},
		{name: "uppercase alias", formula: "AMOUNT"},
		{name: "mixed case alias", formula: "Amount"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := formula.Evaluate(tc.formula, ctx(10_000_000))
			require.NoError(t, err)
			// Pass-through is unrounded and unscaled.
			assert.True(t, decimal.NewFromInt(10_000_000).Equal(result))
			assert.Equal(t, int32(0), result.Exponent())
		})
	}
}

func TestEvaluate_Arithmetic(t *testing.T) {
	testCases := []struct {
		name    string
		formula string
		amount  int64
		want    string
	}{
		{name: "percentage", formula: "amount * 0.11", amount: 10_000_000, want: "1100000.00"},
		{name: "extract base from gross", formula: "amount / 1.11", amount: 11_100_000, want: "10000000.00"},
		{name: "addition", formula: "amount + 1000", amount: 5000, want: "6000.00"},
		{name: "subtraction", formula: "amount - 1000", amount: 5000, want: "4000.00"},
		{name: "constant", formula: "1000000", amount: 0, want: "1000000.00"},
		{name: "grouping", formula: "(amount + 1000) * 2", amount: 500, want: "3000.00"},
		{name: "precedence", formula: "amount + 2 * 3", amount: 10, want: "16.00"},
		{name: "unary minus", formula: "-amount + 100", amount: 40, want: "60.00"},
		{name: "rounding half up", formula: "amount * 0.005", amount: 101, want: "0.51"},
		{name: "full precision before rounding", formula: "amount / 3 * 3", amount: 100, want: "100.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := formula.Evaluate(tc.formula, ctx(tc.amount))
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.StringFixed(2))
		})
	}
}

func TestEvaluate_Conditional(t *testing.T) {
	const pph23 = "amount > 2000000 ? amount * 0.02 : 0"

	below, err := formula.Evaluate(pph23, ctx(1_500_000))
	require.NoError(t, err)
	assert.Equal(t, "0.00", below.StringFixed(2))

	above, err := formula.Evaluate(pph23, ctx(5_000_000))
	require.NoError(t, err)
	assert.Equal(t, "100000.00", above.StringFixed(2))
}

func TestEvaluate_ConditionalOperators(t *testing.T) {
	testCases := []struct {
		formula string
		want    string
	}{
		{formula: "amount >= 100 ? 1 : 2", want: "1.00"},
		{formula: "amount <= 99 ? 1 : 2", want: "2.00"},
		{formula: "amount < 100 ? 1 : 2", want: "2.00"},
		{formula: "amount == 100 ? 1 : 2", want: "1.00"},
		{formula: "amount > 50 ? amount > 75 ? 3 : 4 : 5", want: "3.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.formula, func(t *testing.T) {
			result, err := formula.Evaluate(tc.formula, ctx(100))
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.StringFixed(2))
		})
	}
}

func TestEvaluate_Variables(t *testing.T) {
	vars := map[string]decimal.Decimal{
		"grossSalary": decimal.NewFromInt(12_000_000),
		"companyBpjs": decimal.NewFromInt(500_000),
	}
	evalCtx := formula.NewContextWithVariables(decimal.NewFromInt(10_000_000), vars)

	result, err := formula.Evaluate("companyBpjs * 0.8", evalCtx)
	require.NoError(t, err)
	assert.Equal(t, "400000.00", result.StringFixed(2))

	result, err = formula.Evaluate("grossSalary - companyBpjs", evalCtx)
	require.NoError(t, err)
	assert.Equal(t, "11500000.00", result.StringFixed(2))

	// Variable names are case-sensitive; only the amount alias is not.
	_, err = formula.Evaluate("GROSSSALARY", evalCtx)
	require.Error(t, err)
}

func TestEvaluate_UnknownVariable(t *testing.T) {
	_, err := formula.Evaluate("amount - pph21", ctx(1000))
	require.Error(t, err)

	var formulaErr *formula.Error
	require.ErrorAs(t, err, &formulaErr)
	assert.Equal(t, formula.KindEvaluation, formulaErr.Kind)
	assert.Contains(t, err.Error(), "pph21")
}

func TestEvaluate_SyntaxErrors(t *testing.T) {
	testCases := []string{
		"amount *",
		"amount + + 2",
		"(amount",
		"amount > 100 ? 1",
		"amount ? 1 : 2 :",
		"1.2.3",
		"amount @ 2",
		"amount = 100 ? 1 : 2",
	}

	for _, bad := range testCases {
		t.Run(bad, func(t *testing.T) {
			_, err := formula.Evaluate(bad, ctx(1000))
			require.Error(t, err)

			var formulaErr *formula.Error
			require.ErrorAs(t, err, &formulaErr)
			assert.Equal(t, formula.KindSyntax, formulaErr.Kind)
		})
	}
}

func TestEvaluate_EvaluationErrors(t *testing.T) {
	// Well-formed expressions that fail only at evaluation time.
	testCases := []string{
		"amount / 0",
		"amount / (amount - amount)",
		"(amount > 100) + 1",
		"amount ? 1 : 2",
	}

	for _, bad := range testCases {
		t.Run(bad, func(t *testing.T) {
			_, err := formula.Evaluate(bad, ctx(1000))
			require.Error(t, err)

			var formulaErr *formula.Error
			require.ErrorAs(t, err, &formulaErr)
			assert.Equal(t, formula.KindEvaluation, formulaErr.Kind)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := []string{
		"",
		"amount",
		"AMOUNT",
		"amount * 0.11",
		"amount > 2000000 ? amount * 0.02 : 0",
		// References to variables absent from any context are structurally
		// valid; they only fail at evaluation time.
		"grossSalary - totalBpjs - pph21",
		"netPay",
	}
	for _, f := range valid {
		assert.Empty(t, formula.Validate(f), "formula %q should validate", f)
	}

	invalid := []string{
		"amount *",
		"(amount",
		"amount > ? 1 : 0",
	}
	for _, f := range invalid {
		assert.NotEmpty(t, formula.Validate(f), "formula %q should not validate", f)
	}
}

func TestPreview(t *testing.T) {
	result := formula.Preview("amount * 0.11", decimal.NewFromInt(10_000_000))
	require.NotNil(t, result)
	assert.Equal(t, "1100000.00", result.StringFixed(2))

	// Failures preview as nil rather than raising.
	assert.Nil(t, formula.Preview("amount *", decimal.NewFromInt(100)))
	assert.Nil(t, formula.Preview("unknownVar * 2", decimal.NewFromInt(100)))
}
