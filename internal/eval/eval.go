package eval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidExpression indicates the input is not a well-formed arithmetic
// expression. Callers treat it as "not math", never as a fatal error.
var ErrInvalidExpression = errors.New("invalid expression")

// Evaluate computes the numeric value of an arithmetic expression.
// Supported: decimal numbers, + - * / % ^, parentheses, unary minus, and a
// small function set (sqrt, abs, round, floor, ceil). Division follows
// IEEE 754 semantics, so dividing by zero yields an infinity, not an error.
func Evaluate(expr string) (float64, error) {
	p := &parser{input: expr}
	p.skipSpace()
	if p.eof() {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidExpression)
	}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if !p.eof() {
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidExpression, p.input[p.pos], p.pos)
	}
	return result, nil
}

// functions maps known function names to their implementations
var functions = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"round": math.Round,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

type parser struct {
	input string
	pos   int
}

// parseExpr handles + and - (lowest precedence)
func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch {
		case p.peek() == '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case p.peek() == '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

// parseTerm handles * / and %
func (p *parser) parseTerm() (float64, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			// IEEE 754: x/0 is ±Inf, 0/0 is NaN
			left /= right
		case '%':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return 0, err
			}
			left = math.Mod(left, right)
		default:
			return left, nil
		}
	}
}

// parsePower handles ^ (right-associative)
func (p *parser) parsePower() (float64, error) {
	base, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.peek() == '^' {
		p.pos++
		exp, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

// parseUnary handles leading minus
func (p *parser) parseUnary() (float64, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parsePrimary()
}

// parsePrimary handles numbers, parenthesized expressions, and functions
func (p *parser) parsePrimary() (float64, error) {
	p.skipSpace()
	if p.eof() {
		return 0, fmt.Errorf("%w: unexpected end of input", ErrInvalidExpression)
	}

	c := p.peek()

	if c == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidExpression)
		}
		p.pos++
		return v, nil
	}

	if unicode.IsLetter(rune(c)) {
		return p.parseFunction()
	}

	if unicode.IsDigit(rune(c)) || c == '.' {
		return p.parseNumber()
	}

	return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidExpression, c, p.pos)
}

// parseFunction reads a function name and its argument. The argument may be
// parenthesized ("sqrt(144)") or bare ("sqrt 144") to keep natural-language
// rewrites simple.
func (p *parser) parseFunction() (float64, error) {
	start := p.pos
	for !p.eof() && unicode.IsLetter(rune(p.peek())) {
		p.pos++
	}
	name := strings.ToLower(p.input[start:p.pos])
	fn, ok := functions[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown function %q", ErrInvalidExpression, name)
	}
	arg, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	return fn(arg), nil
}

// parseNumber reads a decimal literal
func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	seenDot := false
	for !p.eof() {
		c := p.peek()
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
			p.pos++
			continue
		}
		if !unicode.IsDigit(rune(c)) {
			break
		}
		p.pos++
	}
	text := p.input[start:p.pos]
	if text == "" || text == "." {
		return 0, fmt.Errorf("%w: malformed number at position %d", ErrInvalidExpression, start)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed number %q", ErrInvalidExpression, text)
	}
	return v, nil
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
