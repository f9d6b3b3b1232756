package token

import "testing"

func matchFirst(t *testing.T, input string) (Kind, string) {
	t.Helper()
	for _, m := range Library() {
		if loc := m.Regex.FindStringIndex(input); loc != nil && loc[0] == 0 {
			return m.Kind, input[loc[0]:loc[1]]
		}
	}
	t.Fatalf("no matcher matched %q", input)
	return 0, ""
}

func TestFloatBeforeInteger(t *testing.T) {
	kind, text := matchFirst(t, "555.55")
	if kind != Float {
		t.Errorf("expected Float for %q, got %v (%q)", "555.55", kind, text)
	}
}

func TestIntegerAlone(t *testing.T) {
	kind, _ := matchFirst(t, "123 (")
	if kind != Integer {
		t.Errorf("expected Integer, got %v", kind)
	}
}

func TestKeywordsBeforeReference(t *testing.T) {
	kind, _ := matchFirst(t, "fn foo()")
	if kind != FunctionDefinition {
		t.Errorf("expected FunctionDefinition, got %v", kind)
	}

	kind, _ = matchFirst(t, "use foo/bar")
	if kind != UseModule {
		t.Errorf("expected UseModule, got %v", kind)
	}
}

func TestVarAssignBeforeOperator(t *testing.T) {
	kind, text := matchFirst(t, ":= 5")
	if kind != VarAssign || text != ":=" {
		t.Errorf("expected VarAssign(':='), got %v(%q)", kind, text)
	}
}

func TestBooleanLiteral(t *testing.T) {
	for _, in := range []string{"true", "FALSE", "True"} {
		kind, _ := matchFirst(t, in)
		if kind != Boolean {
			t.Errorf("expected Boolean for %q, got %v", in, kind)
		}
	}
}

func TestDateTimeLiteral(t *testing.T) {
	kind, _ := matchFirst(t, "2022-01-01")
	if kind != DateTime {
		t.Errorf("expected DateTime, got %v", kind)
	}
}

func TestCommentIsMatched(t *testing.T) {
	kind, _ := matchFirst(t, "# a comment\nfoo")
	if kind != Comment {
		t.Errorf("expected Comment, got %v", kind)
	}
}
