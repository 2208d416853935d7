package barkml

import "strings"

// symbolTable maps every assignment's absolute dotted path (composite
// ids joined by ".") to its raw, pre-resolution Value. It is built once
// from the merged (but not yet macro-resolved) module tree and is
// queried repeatedly during resolution; entries are never mutated, only
// read, so chains that reference a value fresh the loader hasn't yet
// rewritten still see the correct original payload regardless of
// traversal order. Grounded on the scope-based lookup described in
// original_source/src/ast/scope.rs, generalized to the dotted/composite-id
// addressing scheme spec.md defines.
type symbolTable struct {
	values map[string]*Value
}

func buildSymbolTable(root *Statement) *symbolTable {
	st := &symbolTable{values: make(map[string]*Value)}
	if root.Children != nil {
		st.walk(root.Children, nil)
	}
	return st
}

func (st *symbolTable) walk(children *orderedMap[*Statement], prefix []string) {
	children.Each(func(_ string, child *Statement) bool {
		path := append(append([]string(nil), prefix...), child.CompositeID())
		if child.Kind == StatementAssignment {
			st.values[strings.Join(path, ".")] = child.Value
			return true
		}
		if child.Children != nil {
			st.walk(child.Children, path)
		}
		return true
	})
}

// resolveScoped implements the §4.5 lookup rule: try macroPath relative
// to each prefix of contextPath, from innermost (contextPath itself) to
// outermost (the root, empty prefix). The first match wins. "self" and
// "super" are a supplemental addressing form (see DESIGN.md) resolved
// directly against the immediate container and its parent rather than
// via the prefix search: self.x looks inside the statement's own
// container, super.x looks inside that container's container (the
// statement's grandparent).
func (st *symbolTable) resolveScoped(macroPath string, contextPath []string) (string, *Value, bool) {
	switch {
	case macroPath == "self" || strings.HasPrefix(macroPath, "self."):
		rel := strings.TrimPrefix(strings.TrimPrefix(macroPath, "self"), ".")
		return st.lookupRelative(rel, containerOf(contextPath))
	case macroPath == "super" || strings.HasPrefix(macroPath, "super."):
		rel := strings.TrimPrefix(strings.TrimPrefix(macroPath, "super"), ".")
		return st.lookupRelative(rel, containerOf(containerOf(contextPath)))
	}
	for i := len(contextPath); i >= 0; i-- {
		if abs, v, ok := st.lookupRelative(macroPath, contextPath[:i]); ok {
			return abs, v, true
		}
	}
	return "", nil, false
}

func (st *symbolTable) lookupRelative(macroPath string, prefix []string) (string, *Value, bool) {
	if macroPath == "" {
		return "", nil, false
	}
	full := append(append([]string(nil), prefix...), strings.Split(macroPath, ".")...)
	abs := strings.Join(full, ".")
	v, ok := st.values[abs]
	return abs, v, ok
}

// containerOf drops the last segment of a path, giving the path of the
// container that holds it. Dropping from an empty or single-element path
// yields an empty path (the root).
func containerOf(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	return path[:len(path)-1]
}

// resolver resolves every Macro value reachable from a module's
// assignments against a fixed symbolTable, rebuilding new Statement and
// Value trees rather than mutating the input (the lifecycle rule:
// loaders rebuild trees during merge/resolve passes).
type resolver struct {
	table        *symbolTable
	maxDepth     int
	allowMissing bool
	texts        map[string]string
}

func newResolver(root *Statement, maxDepth int, allowMissing bool, texts map[string]string) *resolver {
	return &resolver{table: buildSymbolTable(root), maxDepth: maxDepth, allowMissing: allowMissing, texts: texts}
}

// Resolve walks stmt's tree and returns a new tree with every macro
// reference substituted.
func (r *resolver) Resolve(stmt *Statement) (*Statement, error) {
	return r.resolveStatement(stmt, nil)
}

func (r *resolver) resolveStatement(stmt *Statement, path []string) (*Statement, error) {
	clone := stmt.Clone()
	if stmt.Kind == StatementAssignment {
		resolved, err := r.resolveValue(stmt.Value, path, nil, 0)
		if err != nil {
			return nil, err
		}
		if stmt.DeclaredType != nil && resolved.Kind != TypeMacro {
			if !Compatible(*stmt.DeclaredType, resolved.Type()) {
				return nil, newTypeMismatch(resolved.Loc, *stmt.DeclaredType, resolved.Type(), r.texts[resolved.Loc.Source])
			}
		}
		clone.Value = resolved
		return clone, nil
	}
	if stmt.Children == nil {
		return clone, nil
	}
	newChildren := newOrderedMap[*Statement]()
	var rerr error
	stmt.Children.Each(func(key string, child *Statement) bool {
		childPath := append(append([]string(nil), path...), child.CompositeID())
		resolvedChild, err := r.resolveStatement(child, childPath)
		if err != nil {
			rerr = err
			return false
		}
		newChildren.Set(key, resolvedChild)
		return true
	})
	if rerr != nil {
		return nil, rerr
	}
	clone.Children = newChildren
	return clone, nil
}

func (r *resolver) resolveValue(val *Value, contextPath []string, stack []string, depth int) (*Value, error) {
	switch val.Kind {
	case TypeMacro:
		return r.followMacro(val, contextPath, stack, depth)
	case TypeArray:
		elems, _ := val.AsArray()
		newElems := make([]*Value, len(elems))
		for i, e := range elems {
			re, err := r.resolveValue(e, contextPath, stack, depth)
			if err != nil {
				return nil, err
			}
			newElems[i] = re
		}
		return NewArrayValue(newElems, val.Loc, val.Meta), nil
	case TypeTable:
		t, _ := val.AsTable()
		newTable := newOrderedMap[*Value]()
		var rerr error
		t.Each(func(k string, v *Value) bool {
			rv, err := r.resolveValue(v, contextPath, stack, depth)
			if err != nil {
				rerr = err
				return false
			}
			newTable.Set(k, rv)
			return true
		})
		if rerr != nil {
			return nil, rerr
		}
		return NewTableValue(newTable, val.Loc, val.Meta), nil
	default:
		return val, nil
	}
}

func (r *resolver) followMacro(val *Value, contextPath []string, stack []string, depth int) (*Value, error) {
	// Seed the stack with the referencing statement's own absolute path on
	// the first hop, so a MacroCycle diagnostic's Stack starts at the
	// macro that was originally assigned rather than at whatever it first
	// pointed to.
	if len(stack) == 0 {
		stack = []string{strings.Join(contextPath, ".")}
	}
	if depth > r.maxDepth {
		return nil, newMacroCycle(val.Loc, append(append([]string(nil), stack...), val.macro), r.texts[val.Loc.Source])
	}
	abs, target, ok := r.table.resolveScoped(val.macro, contextPath)
	if !ok {
		if r.allowMissing {
			return val, nil
		}
		return nil, newUnresolvedMacro(val.Loc, val.macro, r.texts[val.Loc.Source])
	}
	for _, s := range stack {
		if s == abs {
			return nil, newMacroCycle(val.Loc, append(append([]string(nil), stack...), abs), r.texts[val.Loc.Source])
		}
	}
	newStack := append(append([]string(nil), stack...), abs)
	targetContext := splitPath(abs)
	if target.Kind == TypeMacro {
		return r.followMacro(target, targetContext, newStack, depth+1)
	}
	resolved, err := r.resolveValue(target, targetContext, newStack, depth+1)
	if err != nil {
		return nil, err
	}
	return resolved.WithLocation(val.Loc), nil
}

func splitPath(abs string) []string {
	if abs == "" {
		return nil
	}
	return strings.Split(abs, ".")
}
