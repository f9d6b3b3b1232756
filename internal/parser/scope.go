package parser

import (
	"csvpp/internal/ast"
	"csvpp/internal/cerr"
	"csvpp/internal/lexer"
	"csvpp/internal/token"
)

// Scope is the parsed code section: its variable and function definitions, and the module
// paths it depends on via `use`.
type Scope struct {
	Variables map[string]ast.Node
	Functions map[string]*ast.Function
	Uses      []string
}

// NewScope returns an empty Scope ready to be populated.
func NewScope() *Scope {
	return &Scope{
		Variables: map[string]ast.Node{},
		Functions: map[string]*ast.Function{},
	}
}

// varAssignBindingPower bounds the right-hand side of a ":=" definition: one above ":="'s own
// right binding power of 1, per the precedence table, so the RHS expression can't itself
// consume a sibling top-level ":=".
const varAssignBindingPower = 2

// ParseScope parses the full code section of a source file: zero or more `use`, `name := expr`,
// and `fn name(args) expr` statements, one per logical line, looping until the lexer is
// exhausted.
func ParseScope(input string) (*Scope, error) {
	l, err := lexer.NewASTLexer(input)
	if err != nil {
		return nil, codeSyntaxErr(1, 1, "error lexing code section: "+err.Error())
	}

	scope := NewScope()

	for {
		tok := l.Peek()
		if tok.Kind == token.EOF {
			return scope, nil
		}

		if err := parseStatement(l, scope); err != nil {
			return nil, err
		}
	}
}

func parseStatement(l *lexer.ASTLexer, scope *Scope) error {
	tok := l.Peek()

	switch tok.Kind {
	case token.UseModule:
		l.Next()
		path := l.Next()
		if path.Kind != token.Reference && path.Kind != token.DoubleQuotedString {
			return codeSyntaxErr(path.Line, path.Column, "expected a module path after 'use'")
		}
		scope.Uses = append(scope.Uses, path.Text)
		return nil

	case token.FunctionDefinition:
		return parseFunctionDefinition(l, scope)

	case token.Reference:
		return parseVariableDefinition(l, scope)

	default:
		return codeSyntaxErr(tok.Line, tok.Column, "expected 'use', a function definition, or a variable definition")
	}
}

func parseVariableDefinition(l *lexer.ASTLexer, scope *Scope) error {
	name := l.Next()

	assign := l.Next()
	if assign.Kind != token.VarAssign {
		return codeSyntaxErr(assign.Line, assign.Column, "expected ':=' after "+name.Text)
	}

	if _, exists := scope.Variables[name.Text]; exists {
		return codeSyntaxErr(name.Line, name.Column, "duplicate variable definition: "+name.Text)
	}

	p := NewExprParser(l)
	body, err := p.ParseExpr(varAssignBindingPower)
	if err != nil {
		return err
	}

	scope.Variables[name.Text] = body
	return nil
}

func parseFunctionDefinition(l *lexer.ASTLexer, scope *Scope) error {
	l.Next() // consume 'fn'

	name := l.Next()
	if name.Kind != token.Reference {
		return codeSyntaxErr(name.Line, name.Column, "expected a function name after 'fn'")
	}

	if open := l.Next(); open.Kind != token.OpenParen {
		return codeSyntaxErr(open.Line, open.Column, "expected '(' after function name")
	}

	var args []string
	if l.Peek().Kind != token.CloseParen {
		for {
			arg := l.Next()
			if arg.Kind != token.Reference {
				return codeSyntaxErr(arg.Line, arg.Column, "expected an argument name")
			}
			args = append(args, arg.Text)

			next := l.Next()
			if next.Kind == token.CloseParen {
				break
			}
			if next.Kind != token.Comma {
				return codeSyntaxErr(next.Line, next.Column, "expected ',' or ')' in argument list")
			}
		}
	} else {
		l.Next() // consume ')'
	}

	if _, exists := scope.Functions[name.Text]; exists {
		return codeSyntaxErr(name.Line, name.Column, "duplicate function definition: "+name.Text)
	}

	p := NewExprParser(l)
	body, err := p.ParseExpr(0)
	if err != nil {
		return err
	}

	scope.Functions[name.Text] = &ast.Function{Name: name.Text, Args: args, Body: body}
	return nil
}

func codeSyntaxErr(line, col int, message string) error {
	return &cerr.CodeSyntaxError{Line: line, Column: col, Message: message}
}
