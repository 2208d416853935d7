package barkml

import (
	"math/big"
	"strings"
)

// Walker is a read-only navigation interface over a resolved Module. Its
// body is intentionally thin: the full convenience API (iteration
// helpers, default values, typed collection accessors) is out of scope;
// only the interface shape from the external-interfaces section is kept
// here, directly testable.
type Walker struct {
	stmt *Statement
}

// NewWalker wraps a statement (typically a resolved Module) for
// navigation.
func NewWalker(stmt *Statement) *Walker { return &Walker{stmt: stmt} }

// GetChild descends one level, returning a Walker over the named child
// if it is a container (Block, Section, Module, Group).
func (w *Walker) GetChild(name string) (*Walker, bool) {
	if w.stmt.Children == nil {
		return nil, false
	}
	child, ok := w.stmt.Children.Get(name)
	if !ok || !child.HasChildren() {
		return nil, false
	}
	return &Walker{stmt: child}, true
}

// Get navigates a dotted path, with block-label support via composite
// ids (e.g. "server$primary.port"), returning either the leaf Value (for
// an assignment) or the Statement (for a container).
func (w *Walker) Get(dottedPath string) (*Value, *Statement, bool) {
	parts := strings.Split(dottedPath, ".")
	cur := w.stmt
	for i, part := range parts {
		if cur.Children == nil {
			return nil, nil, false
		}
		child, ok := cur.Children.Get(part)
		if !ok {
			return nil, nil, false
		}
		if i == len(parts)-1 {
			if child.Kind == StatementAssignment {
				return child.Value, nil, true
			}
			return nil, child, true
		}
		cur = child
	}
	return nil, nil, false
}

func (w *Walker) String(path string) (string, bool) {
	v, _, ok := w.Get(path)
	if !ok || v == nil {
		return "", false
	}
	return v.AsString()
}

// Symbol explicitly coerces a symbol value; String never implicitly
// returns a symbol's text (0.8.1: symbol-to-string is not implicit).
func (w *Walker) Symbol(path string) (string, bool) {
	v, _, ok := w.Get(path)
	if !ok || v == nil {
		return "", false
	}
	return v.AsSymbol()
}

func (w *Walker) Bool(path string) (bool, bool) {
	v, _, ok := w.Get(path)
	if !ok || v == nil {
		return false, false
	}
	return v.AsBool()
}

func (w *Walker) Int(path string) (*big.Int, bool) {
	v, _, ok := w.Get(path)
	if !ok || v == nil {
		return nil, false
	}
	return v.AsInt()
}

func (w *Walker) Float(path string) (float64, bool) {
	v, _, ok := w.Get(path)
	if !ok || v == nil {
		return 0, false
	}
	return v.AsFloat()
}

func (w *Walker) Array(path string) ([]*Value, bool) {
	v, _, ok := w.Get(path)
	if !ok || v == nil {
		return nil, false
	}
	return v.AsArray()
}
