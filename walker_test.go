package barkml

import "testing"

func walkerFromSource(t *testing.T, src string) *Walker {
	t.Helper()
	mod := mustParse(t, src)
	r := newResolver(mod, 64, false, nil)
	resolved, err := r.Resolve(mod)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return NewWalker(resolved)
}

func TestWalkerGetChildDescendsIntoContainer(t *testing.T) {
	w := walkerFromSource(t, `db { host = "h" }`)
	child, ok := w.GetChild("db")
	if !ok {
		t.Fatal("expected db to be a navigable child")
	}
	got, ok := child.String("host")
	if !ok || got != "h" {
		t.Fatalf("got (%q, %v), want (\"h\", true)", got, ok)
	}
}

func TestWalkerGetChildRejectsLeafAssignment(t *testing.T) {
	w := walkerFromSource(t, `x = 1`)
	if _, ok := w.GetChild("x"); ok {
		t.Fatal("expected GetChild to reject a non-container assignment")
	}
}

func TestWalkerDottedPathWithCompositeLabel(t *testing.T) {
	w := walkerFromSource(t, `server [primary] { port = 8080u16 }`)
	n, ok := w.Int("server$primary.port")
	if !ok || n.Int64() != 8080 {
		t.Fatalf("got (%v, %v), want (8080, true)", n, ok)
	}
}

func TestWalkerScalarAccessors(t *testing.T) {
	w := walkerFromSource(t, `
name = "svc"
enabled = true
ratio = 1.5
`)
	if s, ok := w.String("name"); !ok || s != "svc" {
		t.Fatalf("got (%q, %v)", s, ok)
	}
	if b, ok := w.Bool("enabled"); !ok || !b {
		t.Fatalf("got (%v, %v)", b, ok)
	}
	if f, ok := w.Float("ratio"); !ok || f != 1.5 {
		t.Fatalf("got (%v, %v)", f, ok)
	}
}

func TestWalkerSymbolIsNotImplicitString(t *testing.T) {
	w := walkerFromSource(t, `kind = :primary`)
	if _, ok := w.String("kind"); ok {
		t.Fatal("expected String to reject a symbol value")
	}
	sym, ok := w.Symbol("kind")
	if !ok || sym != "primary" {
		t.Fatalf("got (%q, %v)", sym, ok)
	}
}

func TestWalkerArrayAccessor(t *testing.T) {
	w := walkerFromSource(t, `values = [1, 2, 3]`)
	arr, ok := w.Array("values")
	if !ok || len(arr) != 3 {
		t.Fatalf("got (%v, %v), want length 3", arr, ok)
	}
}

func TestWalkerGetMissingPathReturnsFalse(t *testing.T) {
	w := walkerFromSource(t, `x = 1`)
	if _, _, ok := w.Get("missing.path"); ok {
		t.Fatal("expected a missing path to report false")
	}
}
