package index

import (
	"errors"
	"strconv"
)

// Arithmetic queries bypass the index: a string of digits and
// operators with at least one operator evaluates to a single
// calculator result.

var errBadExpression = errors.New("malformed expression")

// looksLikeExpression reports whether the query should be treated as
// arithmetic: only digits, operators, dots, parentheses and spaces,
// with at least one digit and one operator.
func looksLikeExpression(query string) bool {
	hasDigit, hasOperator := false, false
	for _, r := range query {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '+' || r == '-' || r == '*' || r == '/':
			hasOperator = true
		case r == '.' || r == '(' || r == ')' || r == ' ':
		default:
			return false
		}
	}
	return hasDigit && hasOperator
}

// evaluate computes the expression via shunting-yard into an operand
// stack. Supports + - * / and parentheses; a minus in operand position
// is the unary operator 'u', binding tighter than any binary operator
// so it negates the very next operand or parenthesized group.
func evaluate(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}

	var operands []float64
	var operators []byte

	apply := func() error {
		if len(operators) == 0 {
			return errBadExpression
		}
		op := operators[len(operators)-1]
		operators = operators[:len(operators)-1]

		if op == 'u' {
			if len(operands) < 1 {
				return errBadExpression
			}
			operands[len(operands)-1] = -operands[len(operands)-1]
			return nil
		}

		if len(operands) < 2 {
			return errBadExpression
		}
		b := operands[len(operands)-1]
		a := operands[len(operands)-2]
		operands = operands[:len(operands)-2]

		var v float64
		switch op {
		case '+':
			v = a + b
		case '-':
			v = a - b
		case '*':
			v = a * b
		case '/':
			if b == 0 {
				return errBadExpression
			}
			v = a / b
		}
		operands = append(operands, v)
		return nil
	}

	precedence := func(op byte) int {
		switch op {
		case 'u':
			return 3
		case '*', '/':
			return 2
		}
		return 1
	}

	expectOperand := true
	for _, tok := range tokens {
		switch {
		case tok.number:
			if !expectOperand {
				return 0, errBadExpression
			}
			operands = append(operands, tok.value)
			expectOperand = false
		case tok.op == '(':
			operators = append(operators, '(')
			expectOperand = true
		case tok.op == ')':
			for len(operators) > 0 && operators[len(operators)-1] != '(' {
				if err := apply(); err != nil {
					return 0, err
				}
			}
			if len(operators) == 0 {
				return 0, errBadExpression
			}
			operators = operators[:len(operators)-1]
			expectOperand = false
		default:
			if expectOperand {
				if tok.op != '-' {
					return 0, errBadExpression
				}
				// Right-associative, so stacked minuses just nest.
				operators = append(operators, 'u')
				continue
			}
			for len(operators) > 0 && operators[len(operators)-1] != '(' &&
				precedence(operators[len(operators)-1]) >= precedence(tok.op) {
				if err := apply(); err != nil {
					return 0, err
				}
			}
			operators = append(operators, tok.op)
			expectOperand = true
		}
	}

	for len(operators) > 0 {
		if operators[len(operators)-1] == '(' {
			return 0, errBadExpression
		}
		if err := apply(); err != nil {
			return 0, err
		}
	}
	if len(operands) != 1 {
		return 0, errBadExpression
	}
	return operands[0], nil
}

type token struct {
	number bool
	value  float64
	op     byte
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ':
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
				j++
			}
			v, err := strconv.ParseFloat(expr[i:j], 64)
			if err != nil {
				return nil, errBadExpression
			}
			tokens = append(tokens, token{number: true, value: v})
			i = j
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')':
			tokens = append(tokens, token{op: c})
			i++
		default:
			return nil, errBadExpression
		}
	}
	if len(tokens) == 0 {
		return nil, errBadExpression
	}
	return tokens, nil
}

// formatResult renders the value the way a launcher result line
// shows it: integers without a decimal point.
func formatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
