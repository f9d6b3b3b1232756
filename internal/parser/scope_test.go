package parser

import (
	"testing"

	"csvpp/internal/ast"
)

func parseScope(t *testing.T, src string) *Scope {
	t.Helper()
	s, err := ParseScope(src)
	if err != nil {
		t.Fatalf("ParseScope(%q): %v", src, err)
	}
	return s
}

func TestParseScopeEmpty(t *testing.T) {
	s := parseScope(t, "")
	if len(s.Variables) != 0 || len(s.Functions) != 0 || len(s.Uses) != 0 {
		t.Errorf("empty input produced %+v", s)
	}
}

func TestParseScopeVariable(t *testing.T) {
	s := parseScope(t, "foo := 1\n")
	if got := s.Variables["foo"]; got != ast.Integer(1) {
		t.Errorf("foo = %#v, want Integer(1)", got)
	}
}

func TestParseScopeMultipleStatements(t *testing.T) {
	s := parseScope(t, "use util\nrate := 0.05\nfn double(x) x * 2\n")
	if len(s.Uses) != 1 || s.Uses[0] != "util" {
		t.Errorf("uses = %v", s.Uses)
	}
	if got := s.Variables["rate"]; got != ast.Float(0.05) {
		t.Errorf("rate = %#v", got)
	}
	fn := s.Functions["double"]
	if fn == nil || len(fn.Args) != 1 || fn.Args[0] != "x" {
		t.Errorf("double = %#v", fn)
	}
}

func TestParseScopeVariableBodyStopsAtNextStatement(t *testing.T) {
	s := parseScope(t, "a := 1 + 2\nb := 3\n")
	if _, ok := s.Variables["a"].(*ast.InfixCall); !ok {
		t.Errorf("a = %#v, want the infix +", s.Variables["a"])
	}
	if got := s.Variables["b"]; got != ast.Integer(3) {
		t.Errorf("b = %#v, want Integer(3)", got)
	}
}

func TestParseScopeFunctionNoArgs(t *testing.T) {
	s := parseScope(t, "fn constant() 42\n")
	fn := s.Functions["constant"]
	if fn == nil || len(fn.Args) != 0 || fn.Body != ast.Integer(42) {
		t.Errorf("constant = %#v", fn)
	}
}

func TestParseScopeComments(t *testing.T) {
	s := parseScope(t, "# a comment\nfoo := 1 # trailing\n")
	if got := s.Variables["foo"]; got != ast.Integer(1) {
		t.Errorf("foo = %#v", got)
	}
}

func TestParseScopeDuplicateVariableRejected(t *testing.T) {
	if _, err := ParseScope("foo := 1\nfoo := 2\n"); err == nil {
		t.Fatal("expected a duplicate-variable error")
	}
}

func TestParseScopeDuplicateFunctionRejected(t *testing.T) {
	if _, err := ParseScope("fn f(x) x\nfn f(y) y\n"); err == nil {
		t.Fatal("expected a duplicate-function error")
	}
}

func TestParseScopeBadFunctionHeader(t *testing.T) {
	_, err := ParseScope("fn foo<a,b,c> a + b * c\n")
	if err == nil {
		t.Fatal("expected a syntax error for '<' in place of '('")
	}
}

func TestParseScopeMissingAssignRejected(t *testing.T) {
	if _, err := ParseScope("foo 1\n"); err == nil {
		t.Fatal("expected a syntax error for a missing ':='")
	}
}
