package barkml

import "testing"

func mustParse(t *testing.T, src string) *Statement {
	t.Helper()
	mod, err := Parse("t", src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return mod
}

func TestParseEmptySource(t *testing.T) {
	mod := mustParse(t, "")
	if mod.Kind != StatementModule {
		t.Fatalf("got kind %s, want module", mod.Kind)
	}
	if mod.Children.Len() != 0 {
		t.Fatalf("expected empty module, got %d children", mod.Children.Len())
	}
}

func TestParseAssignmentScenario1(t *testing.T) {
	mod := mustParse(t, "port = 8080u16")
	stmt, ok := mod.Children.Get("port")
	if !ok {
		t.Fatal("missing 'port'")
	}
	if stmt.Kind != StatementAssignment {
		t.Fatalf("got kind %s, want assignment", stmt.Kind)
	}
	n, ok := stmt.Value.AsInt()
	if !ok || stmt.Value.Kind != TypeU16 {
		t.Fatalf("got value %+v, want U16", stmt.Value)
	}
	if n.Int64() != 8080 {
		t.Fatalf("got %s, want 8080", n)
	}
}

func TestParseTypeHintAcceptedScenario2(t *testing.T) {
	mod := mustParse(t, `name: string = "svc"`)
	stmt, _ := mod.Children.Get("name")
	s, _ := stmt.Value.AsString()
	if s != "svc" {
		t.Fatalf("got %q, want svc", s)
	}
}

func TestParseTypeHintMismatchScenario2(t *testing.T) {
	_, err := Parse("t", `name: string = 42`)
	if err == nil {
		t.Fatal("expected TypeMismatch error")
	}
	berr, ok := err.(*Error)
	if !ok || berr.Kind != KindTypeMismatch {
		t.Fatalf("got %v, want TypeMismatch", err)
	}
}

func TestParseLabelledBlocksScenario3(t *testing.T) {
	mod := mustParse(t, `server [primary] { host = "a" } server [secondary] { host = "b" }`)
	if mod.Children.Len() != 2 {
		t.Fatalf("got %d children, want 2", mod.Children.Len())
	}
	primary, ok := mod.Children.Get("server$primary")
	if !ok {
		t.Fatal("missing server$primary")
	}
	secondary, ok := mod.Children.Get("server$secondary")
	if !ok {
		t.Fatal("missing server$secondary")
	}
	if primary.Kind != StatementBlock || secondary.Kind != StatementBlock {
		t.Fatal("expected both to be blocks")
	}
	hostVal, _ := primary.Children.Get("host")
	s, _ := hostVal.Value.AsString()
	if s != "a" {
		t.Fatalf("got %q, want a", s)
	}
}

func TestParseSectionVsBlockDisambiguation(t *testing.T) {
	mod := mustParse(t, `db { host = "h" section_child { x = 1 } }`)
	db, ok := mod.Children.Get("db")
	if !ok || db.Kind != StatementSection {
		t.Fatalf("got %+v, want section (no labels)", db)
	}
	if db.Children.Len() != 2 {
		t.Fatalf("got %d children, want 2", db.Children.Len())
	}
}

func TestParseArrayAndTable(t *testing.T) {
	mod := mustParse(t, `xs = [1, 2, 3] t = { a = 1, b = 2 }`)
	xs, _ := mod.Children.Get("xs")
	elems, ok := xs.Value.AsArray()
	if !ok || len(elems) != 3 {
		t.Fatalf("got %+v", xs.Value)
	}
	tbl, _ := mod.Children.Get("t")
	tv, ok := tbl.Value.AsTable()
	if !ok || tv.Len() != 2 {
		t.Fatalf("got %+v", tbl.Value)
	}
	keys := tv.Keys()
	if keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("got keys %v, want insertion order [a b]", keys)
	}
}

func TestParseMacroRef(t *testing.T) {
	mod := mustParse(t, `target = m!db.host`)
	stmt, _ := mod.Children.Get("target")
	path, ok := stmt.Value.AsMacroPath()
	if !ok || path != "db.host" {
		t.Fatalf("got %+v", stmt.Value)
	}
}

func TestParseDuplicateIdentifier(t *testing.T) {
	_, err := Parse("t", `x = 1 x = 2`)
	if err == nil {
		t.Fatal("expected DuplicateIdentifier error")
	}
	berr, ok := err.(*Error)
	if !ok || berr.Kind != KindDuplicateIdentifier {
		t.Fatalf("got %v, want DuplicateIdentifier", err)
	}
}

func TestParseRecursionLimitOnNestedArrays(t *testing.T) {
	src := "x = " + repeatOpenBrackets(70)
	_, err := Parse("t", src)
	if err == nil {
		t.Fatal("expected RecursionLimit error")
	}
	berr, ok := err.(*Error)
	if !ok || berr.Kind != KindRecursionLimit {
		t.Fatalf("got %v, want RecursionLimit", err)
	}
}

func repeatOpenBrackets(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '['
	}
	return string(out)
}

func TestParseRequireRequirementJuxtaposition(t *testing.T) {
	mod := mustParse(t, `r = >=1.0, <2.0`)
	stmt, _ := mod.Children.Get("r")
	req, ok := stmt.Value.AsRequire()
	if !ok || len(req.Comparators) != 2 {
		t.Fatalf("got %+v, want two comparators", stmt.Value)
	}
	if !req.Matches(Version{Major: 1, Minor: 5}) {
		t.Fatal("expected 1.5.0 to satisfy >=1.0, <2.0")
	}
	if req.Matches(Version{Major: 2}) {
		t.Fatal("expected 2.0.0 to fail <2.0")
	}
}

func TestParseCommentAttachment(t *testing.T) {
	mod := mustParse(t, "# a comment\nhost = \"x\"")
	stmt, _ := mod.Children.Get("host")
	if len(stmt.Meta.Comments) != 1 || stmt.Meta.Comments[0] != "a comment" {
		t.Fatalf("got %+v", stmt.Meta)
	}
}
