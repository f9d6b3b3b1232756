package parser

import (
	"testing"

	"csvpp/internal/ast"
	"csvpp/internal/lexer"
)

func parseExpr(t *testing.T, src string) ast.Node {
	t.Helper()
	l, err := lexer.NewASTLexer(src)
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	n, err := NewExprParser(l).ParseExpr(0)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return n
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Node
	}{
		{"true", ast.Boolean(true)},
		{"FALSE", ast.Boolean(false)},
		{"42", ast.Integer(42)},
		{"3.5", ast.Float(3.5)},
		{`"hi there"`, ast.Text("hi there")},
		{"foo", ast.Reference{Name: "foo"}},
	}
	for _, tt := range tests {
		got := parseExpr(t, tt.src)
		if got != tt.want {
			t.Errorf("parse(%q) = %#v, want %#v", tt.src, got, tt.want)
		}
	}
}

func TestParseStringEscapes(t *testing.T) {
	got := parseExpr(t, `"a \"quoted\" word"`)
	if got != ast.Text(`a "quoted" word`) {
		t.Errorf("got %#v", got)
	}
}

func TestParsePrecedence(t *testing.T) {
	n := parseExpr(t, "1 + 2 * 3")
	add, ok := n.(*ast.InfixCall)
	if !ok || add.Op != "+" {
		t.Fatalf("top = %#v, want +", n)
	}
	mul, ok := add.Right.(*ast.InfixCall)
	if !ok || mul.Op != "*" {
		t.Fatalf("right = %#v, want * bound tighter than +", add.Right)
	}
}

func TestParseSamePrecedenceChainsRight(t *testing.T) {
	n := parseExpr(t, "1 - 2 + 3")
	sub, ok := n.(*ast.InfixCall)
	if !ok || sub.Op != "-" {
		t.Fatalf("top = %#v, want -", n)
	}
	if add, ok := sub.Right.(*ast.InfixCall); !ok || add.Op != "+" {
		t.Fatalf("right = %#v, want the + chained under -", sub.Right)
	}
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	n := parseExpr(t, "(1 + 2) * 3")
	mul, ok := n.(*ast.InfixCall)
	if !ok || mul.Op != "*" {
		t.Fatalf("top = %#v, want *", n)
	}
	if add, ok := mul.Left.(*ast.InfixCall); !ok || add.Op != "+" {
		t.Fatalf("left = %#v, want the grouped +", mul.Left)
	}
}

func TestParsePrefixOperators(t *testing.T) {
	n := parseExpr(t, "-foo")
	p, ok := n.(*ast.PrefixCall)
	if !ok || p.Op != "-" {
		t.Fatalf("got %#v, want a prefix -", n)
	}
	if p.Arg != (ast.Reference{Name: "foo"}) {
		t.Errorf("arg = %#v", p.Arg)
	}
}

func TestParsePostfixPercent(t *testing.T) {
	n := parseExpr(t, "50%")
	p, ok := n.(*ast.PostfixCall)
	if !ok || p.Op != "%" {
		t.Fatalf("got %#v, want a postfix %%", n)
	}
	if p.Arg != ast.Integer(50) {
		t.Errorf("arg = %#v", p.Arg)
	}
}

func TestParseFunctionCall(t *testing.T) {
	n := parseExpr(t, "foo(1, bar, 2 + 3)")
	call, ok := n.(*ast.FunctionCall)
	if !ok || call.Name != "foo" {
		t.Fatalf("got %#v, want a call to foo", n)
	}
	if len(call.Args) != 3 {
		t.Fatalf("got %d args, want 3", len(call.Args))
	}
	if call.Args[1] != (ast.Reference{Name: "bar"}) {
		t.Errorf("arg[1] = %#v", call.Args[1])
	}
}

func TestParseEmptyArgumentList(t *testing.T) {
	n := parseExpr(t, "now()")
	call, ok := n.(*ast.FunctionCall)
	if !ok || call.Name != "now" || len(call.Args) != 0 {
		t.Fatalf("got %#v, want now()", n)
	}
}

func TestParseUnclosedParenErrors(t *testing.T) {
	l, err := lexer.NewASTLexer("(1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewExprParser(l).ParseExpr(0); err == nil {
		t.Fatal("expected an error for an unclosed paren")
	}
}

func TestParseDanglingOperatorErrors(t *testing.T) {
	l, err := lexer.NewASTLexer("1 +")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewExprParser(l).ParseExpr(0); err == nil {
		t.Fatal("expected an error for a dangling operator")
	}
}

func TestParseRoundTripsThroughPrint(t *testing.T) {
	sources := []string{
		"1 + 2 * 3",
		"-foo",
		"50%",
		`foo(1, "x")`,
		"(1 + 2) * 3",
		"a < b",
	}
	for _, src := range sources {
		first := parseExpr(t, src)
		second := parseExpr(t, ast.Print(first))
		if ast.Print(first) != ast.Print(second) {
			t.Errorf("%q: round trip diverged: %q vs %q", src, ast.Print(first), ast.Print(second))
		}
	}
}
