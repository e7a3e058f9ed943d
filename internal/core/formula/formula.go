// Package formula parses and evaluates journal template line formulas.
//
// Supported patterns, authored by business users through the template UI:
//
//	amount                                  pass-through of the principal amount
//	amount * 0.11                           percentage (PPN 11%)
//	amount / 1.11                           extract DPP from a gross amount
//	companyBpjs * 0.8                       caller-supplied variable
//	amount > 2000000 ? amount * 0.02 : 0    conditional (PPh 23 threshold)
//	1000000                                 constant
//
// Validation is purely syntactic: unknown variables are only an error at
// evaluation time, because callers supply transaction-specific variables the
// engine cannot know ahead of time.
package formula

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Evaluate computes a formula against the given context. A nil-equivalent
// formula (empty or the bare identifier "amount" in any case) returns the
// principal amount unrounded; every other result is rounded to 2 decimal
// places, half-up, after full-precision evaluation.
func Evaluate(formula string, ctx Context) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(formula)
	if trimmed == "" || strings.EqualFold(trimmed, "amount") {
		return ctx.Amount, nil
	}

	root, err := parse(trimmed)
	if err != nil {
		return decimal.Zero, err
	}

	result, err := root.eval(trimmed, ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if result.isBool {
		return decimal.Zero, evalError(trimmed, "formula must produce a numeric value, got a condition")
	}
	return result.num.Round(2), nil
}

// Validate checks a formula for structural validity and returns parse-error
// messages, empty if well formed. It accepts references to identifiers not
// present in any particular context.
func Validate(formula string) []string {
	trimmed := strings.TrimSpace(formula)
	if trimmed == "" || strings.EqualFold(trimmed, "amount") {
		return nil
	}
	if _, err := parse(trimmed); err != nil {
		return []string{err.Error()}
	}
	return nil
}

// Preview evaluates a formula against a single-variable context built from a
// sample amount, returning nil instead of an error on failure. Used for
// template-authoring previews.
func Preview(formula string, sampleAmount decimal.Decimal) *decimal.Decimal {
	result, err := Evaluate(formula, NewContext(sampleAmount))
	if err != nil {
		return nil
	}
	return &result
}

// value is either a number or a boolean. Comparisons produce booleans, which
// are only usable as conditional predicates.
type value struct {
	num    decimal.Decimal
	cond   bool
	isBool bool
}

func numValue(d decimal.Decimal) value { return value{num: d} }
func boolValue(b bool) value           { return value{cond: b, isBool: true} }

type node interface {
	eval(formula string, ctx Context) (value, error)
}

type literalNode struct {
	val decimal.Decimal
}

func (n literalNode) eval(string, Context) (value, error) {
	return numValue(n.val), nil
}

type variableNode struct {
	name string
}

func (n variableNode) eval(formula string, ctx Context) (value, error) {
	val, ok := ctx.Lookup(n.name)
	if !ok {
		return value{}, evalError(formula, fmt.Sprintf("variable '%s' not found in context", n.name))
	}
	return numValue(val), nil
}

type negateNode struct {
	operand node
}

func (n negateNode) eval(formula string, ctx Context) (value, error) {
	operand, err := n.operand.eval(formula, ctx)
	if err != nil {
		return value{}, err
	}
	if operand.isBool {
		return value{}, evalError(formula, "cannot negate a condition")
	}
	return numValue(operand.num.Neg()), nil
}

type binaryNode struct {
	op          string
	left, right node
}

func (n binaryNode) eval(formula string, ctx Context) (value, error) {
	left, err := n.left.eval(formula, ctx)
	if err != nil {
		return value{}, err
	}
	right, err := n.right.eval(formula, ctx)
	if err != nil {
		return value{}, err
	}
	if left.isBool || right.isBool {
		return value{}, evalError(formula, fmt.Sprintf("operator '%s' requires numeric operands", n.op))
	}
	switch n.op {
	case "+":
		return numValue(left.num.Add(right.num)), nil
	case "-":
		return numValue(left.num.Sub(right.num)), nil
	case "*":
		return numValue(left.num.Mul(right.num)), nil
	default:
		if right.num.IsZero() {
			return value{}, evalError(formula, "division by zero")
		}
		return numValue(left.num.Div(right.num)), nil
	}
}

type compareNode struct {
	op          string
	left, right node
}

func (n compareNode) eval(formula string, ctx Context) (value, error) {
	left, err := n.left.eval(formula, ctx)
	if err != nil {
		return value{}, err
	}
	right, err := n.right.eval(formula, ctx)
	if err != nil {
		return value{}, err
	}
	if left.isBool || right.isBool {
		return value{}, evalError(formula, fmt.Sprintf("operator '%s' requires numeric operands", n.op))
	}
	cmp := left.num.Cmp(right.num)
	switch n.op {
	case ">":
		return boolValue(cmp > 0), nil
	case "<":
		return boolValue(cmp < 0), nil
	case ">=":
		return boolValue(cmp >= 0), nil
	case "<=":
		return boolValue(cmp <= 0), nil
	default: // ==
		return boolValue(cmp == 0), nil
	}
}

type conditionalNode struct {
	predicate  node
	thenBranch node
	elseBranch node
}

func (n conditionalNode) eval(formula string, ctx Context) (value, error) {
	predicate, err := n.predicate.eval(formula, ctx)
	if err != nil {
		return value{}, err
	}
	if !predicate.isBool {
		return value{}, evalError(formula, "conditional predicate must be a comparison")
	}
	if predicate.cond {
		return n.thenBranch.eval(formula, ctx)
	}
	return n.elseBranch.eval(formula, ctx)
}

// --- lexer ---

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOperator // + - * /
	tokCompare  // > < >= <= ==
	tokLParen
	tokRParen
	tokQuestion
	tokColon
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case unicode.IsDigit(c) || c == '.':
			start := i
			seenDot := false
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				if runes[i] == '.' {
					if seenDot {
						return nil, fmt.Errorf("malformed number near '%s'", string(runes[start:i+1]))
					}
					seenDot = true
				}
				i++
			}
			tokens = append(tokens, token{tokNumber, string(runes[start:i])})
		case unicode.IsLetter(c) || c == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			tokens = append(tokens, token{tokIdent, string(runes[start:i])})
		case c == '+' || c == '-' || c == '*' || c == '/':
			tokens = append(tokens, token{tokOperator, string(c)})
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")"})
			i++
		case c == '?':
			tokens = append(tokens, token{tokQuestion, "?"})
			i++
		case c == ':':
			tokens = append(tokens, token{tokColon, ":"})
			i++
		case c == '>' || c == '<':
			op := string(c)
			i++
			if i < len(runes) && runes[i] == '=' {
				op += "="
				i++
			}
			tokens = append(tokens, token{tokCompare, op})
		case c == '=':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, token{tokCompare, "=="})
				i += 2
			} else {
				return nil, fmt.Errorf("unexpected character '=' (use '==' for equality)")
			}
		default:
			return nil, fmt.Errorf("unexpected character '%c'", c)
		}
	}
	tokens = append(tokens, token{tokEOF, ""})
	return tokens, nil
}

// --- parser ---
//
// Precedence, lowest first: conditional, comparison, additive, multiplicative,
// unary minus, primary.

type parser struct {
	formula string
	tokens  []token
	pos     int
}

func parse(formula string) (node, error) {
	tokens, err := tokenize(formula)
	if err != nil {
		return nil, syntaxError(formula, err.Error())
	}
	p := &parser{formula: formula, tokens: tokens}
	root, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, syntaxError(formula, fmt.Sprintf("unexpected '%s'", p.peek().text))
	}
	return root, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.peek().kind != kind {
		return syntaxError(p.formula, fmt.Sprintf("expected %s, found '%s'", what, p.describe(p.peek())))
	}
	p.next()
	return nil
}

func (p *parser) describe(t token) string {
	if t.kind == tokEOF {
		return "end of formula"
	}
	return t.text
}

func (p *parser) parseConditional() (node, error) {
	predicate, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokQuestion {
		return predicate, nil
	}
	p.next()
	thenBranch, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	elseBranch, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return conditionalNode{predicate: predicate, thenBranch: thenBranch, elseBranch: elseBranch}, nil
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCompare {
		return left, nil
	}
	op := p.next().text
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return compareNode{op: op, left: left, right: right}, nil
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOperator && (p.peek().text == "+" || p.peek().text == "-") {
		op := p.next().text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOperator && (p.peek().text == "*" || p.peek().text == "/") {
		op := p.next().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokOperator && p.peek().text == "-" {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negateNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		val, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, syntaxError(p.formula, fmt.Sprintf("malformed number '%s'", t.text))
		}
		return literalNode{val: val}, nil
	case tokIdent:
		p.next()
		return variableNode{name: t.text}, nil
	case tokLParen:
		p.next()
		inner, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, syntaxError(p.formula, fmt.Sprintf("unexpected '%s'", p.describe(t)))
	}
}
