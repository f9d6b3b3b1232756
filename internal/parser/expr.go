// Package parser turns a token stream into an AST: a Pratt expression parser driven by a
// data-driven binding-power table, and a recursive-descent scope parser built on top of it.
package parser

import (
	"strconv"
	"strings"

	"csvpp/internal/ast"
	"csvpp/internal/cerr"
	"csvpp/internal/lexer"
	"csvpp/internal/token"
)

// bindingPower holds the (left, right) binding powers for an infix operator. Prefix and
// postfix operators are handled separately since they bind on only one side.
type bindingPower struct {
	left, right int
}

// infixPower is the operator precedence table from lowest to highest. ":=" is deliberately
// absent: the scope parser consumes it directly rather than routing it through this table,
// so a bare ":=" in expression position is always a syntax error and every token has exactly
// one owner.
var infixPower = map[string]bindingPower{
	"=":  {5, 6},
	"<":  {5, 6},
	">":  {5, 6},
	"<=": {5, 6},
	">=": {5, 6},
	"<>": {5, 6},
	"&":  {7, 8},
	"+":  {9, 10},
	"-":  {9, 10},
	"*":  {11, 12},
	"/":  {11, 12},
	"^":  {13, 14},
}

const prefixPower = 17
const callPower = 15

// ExprParser parses expressions out of an ASTLexer using Pratt (operator-precedence) parsing.
type ExprParser struct {
	l *lexer.ASTLexer
}

// NewExprParser wraps a lexer already positioned at the start of an expression.
func NewExprParser(l *lexer.ASTLexer) *ExprParser {
	return &ExprParser{l: l}
}

// ParseExpr parses a complete expression, consuming infix/postfix operators whose left binding
// power is at least minBP. Recursing into the right-hand side at the operator's own left
// binding power (rather than one below its right binding power) makes same-precedence operators
// chain to the right instead of folding left. Top-level callers pass 0; the scope parser passes
// a binding power just above ":="'s own to bound a variable definition's right-hand side.
func (p *ExprParser) ParseExpr(minBP int) (ast.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.l.Peek()

		if tok.Kind == token.OpenParen {
			left, err = p.parseCall(left)
			if err != nil {
				return nil, err
			}
			continue
		}

		if tok.Kind == token.Operator && tok.Text == "%" {
			p.l.Next()
			left = &ast.PostfixCall{Op: "%", Arg: left}
			continue
		}

		if tok.Kind != token.Operator {
			break
		}

		bp, ok := infixPower[tok.Text]
		if !ok || bp.left < minBP {
			break
		}

		p.l.Next()
		right, err := p.ParseExpr(bp.left)
		if err != nil {
			return nil, err
		}
		left = &ast.InfixCall{Op: tok.Text, Left: left, Right: right}
	}

	return left, nil
}

func (p *ExprParser) parsePrefix() (ast.Node, error) {
	tok := p.l.Next()

	switch tok.Kind {
	case token.Boolean:
		return ast.Boolean(strings.EqualFold(tok.Text, "true")), nil

	case token.DoubleQuotedString:
		return ast.Text(unescapeQuoted(tok.Text)), nil

	case token.Float:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, parseErr(tok, "invalid float literal")
		}
		return ast.Float(f), nil

	case token.Integer:
		i, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, parseErr(tok, "invalid integer literal")
		}
		return ast.Integer(i), nil

	case token.DateTime:
		return ast.DateTime{Raw: tok.Text}, nil

	case token.Reference:
		return ast.Reference{Name: tok.Text}, nil

	case token.OpenParen:
		inner, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		if close := p.l.Next(); close.Kind != token.CloseParen {
			return nil, parseErr(close, "expected ')'")
		}
		return inner, nil

	case token.Operator:
		if tok.Text != "+" && tok.Text != "-" {
			return nil, parseErr(tok, "unexpected prefix operator "+tok.Text)
		}
		arg, err := p.ParseExpr(prefixPower)
		if err != nil {
			return nil, err
		}
		return &ast.PrefixCall{Op: tok.Text, Arg: arg}, nil

	default:
		return nil, parseErr(tok, "unexpected token, expected an expression")
	}
}

func (p *ExprParser) parseCall(fn ast.Node) (ast.Node, error) {
	name, ok := ast.IDRef(fn)
	if !ok {
		return nil, parseErr(p.l.Peek(), "function calls must be on a bare reference")
	}

	p.l.Next() // consume '('
	var args []ast.Node

	if p.l.Peek().Kind == token.CloseParen {
		p.l.Next()
		return &ast.FunctionCall{Name: name, Args: args}, nil
	}

	for {
		arg, err := p.ParseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		next := p.l.Next()
		if next.Kind == token.CloseParen {
			break
		}
		if next.Kind != token.Comma {
			return nil, parseErr(next, "expected ',' or ')' in argument list")
		}
	}

	return &ast.FunctionCall{Name: name, Args: args}, nil
}

func parseErr(tok token.Match, message string) error {
	return &cerr.BadInput{Message: message + " at line " + strconv.Itoa(tok.Line) + ", column " + strconv.Itoa(tok.Column), BadInput: tok.Text}
}

func unescapeQuoted(raw string) string {
	inner := raw
	if len(inner) >= 2 && inner[0] == '"' && inner[len(inner)-1] == '"' {
		inner = inner[1 : len(inner)-1]
	}

	var b strings.Builder
	runes := []rune(inner)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			switch runes[i+1] {
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(runes[i+1])
			}
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}
