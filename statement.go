package barkml

import (
	"strings"

	"github.com/google/uuid"
)

// StatementKind discriminates the Statement tagged union.
type StatementKind int

const (
	StatementAssignment StatementKind = iota
	StatementBlock
	StatementSection
	StatementModule
	StatementGroup
)

func (k StatementKind) String() string {
	switch k {
	case StatementAssignment:
		return "assignment"
	case StatementBlock:
		return "block"
	case StatementSection:
		return "section"
	case StatementModule:
		return "module"
	case StatementGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Statement is a named, structured container: one of Assignment, Block,
// Section, Module, or Group. Only the fields relevant to Kind are
// populated.
type Statement struct {
	UID  uuid.UUID
	ID   string
	Kind StatementKind
	Loc  Location
	Meta Metadata

	// Grouped marks a statement produced to preserve per-file origin
	// during a merge (the "is-grouped" flag of the data model).
	Grouped bool

	// Assignment fields.
	DeclaredType *ValueType
	Value        *Value

	// Block fields.
	Labels []string

	// Section/Module/Group/Block share an ordered child map; for Block
	// the children are restricted to assignments by construction.
	Children *orderedMap[*Statement]

	// Source is populated on Module statements: the file or logical
	// label the module was parsed from.
	Source string
}

func newStatement(kind StatementKind, id string, loc Location, meta Metadata) *Statement {
	return &Statement{UID: uuid.New(), ID: id, Kind: kind, Loc: loc, Meta: meta}
}

func NewAssignment(id string, declared *ValueType, value *Value, loc Location, meta Metadata) *Statement {
	s := newStatement(StatementAssignment, id, loc, meta)
	s.DeclaredType = declared
	s.Value = value
	return s
}

func NewBlock(id string, labels []string, children *orderedMap[*Statement], loc Location, meta Metadata) *Statement {
	s := newStatement(StatementBlock, id, loc, meta)
	s.Labels = labels
	s.Children = children
	return s
}

func NewSection(id string, children *orderedMap[*Statement], loc Location, meta Metadata) *Statement {
	s := newStatement(StatementSection, id, loc, meta)
	s.Children = children
	return s
}

func NewModule(id string, source string, children *orderedMap[*Statement], loc Location, meta Metadata) *Statement {
	s := newStatement(StatementModule, id, loc, meta)
	s.Source = source
	s.Children = children
	return s
}

func NewGroup(id string, children *orderedMap[*Statement], loc Location, meta Metadata) *Statement {
	s := newStatement(StatementGroup, id, loc, meta)
	s.Children = children
	return s
}

// CompositeID is the identifier followed by each label joined with "$",
// used during macro path resolution to disambiguate labelled block
// siblings. Non-block statements have a composite id equal to their
// plain identifier.
func (s *Statement) CompositeID() string {
	if s.Kind != StatementBlock || len(s.Labels) == 0 {
		return s.ID
	}
	parts := append([]string{s.ID}, s.Labels...)
	return strings.Join(parts, "$")
}

// HasChildren reports whether this statement kind carries a child map
// (Block, Section, Module, Group).
func (s *Statement) HasChildren() bool {
	return s.Kind != StatementAssignment
}

// Type returns the ValueType of an assignment's value, or TypeSection /
// TypeBlock / TypeModule for container kinds.
func (s *Statement) Type() ValueType {
	switch s.Kind {
	case StatementAssignment:
		return s.Value.Type()
	case StatementBlock:
		return SimpleType(TypeBlock)
	case StatementSection, StatementGroup:
		return SimpleType(TypeSection)
	case StatementModule:
		return SimpleType(TypeModule)
	default:
		return AnyType()
	}
}

// Clone returns a shallow copy of the statement with its own Children
// map (new orderedMap, same child pointers) so that rebuilding trees
// during merge/resolve never mutates a shared original in place.
func (s *Statement) Clone() *Statement {
	clone := *s
	if s.Children != nil {
		clone.Children = s.Children.Clone()
	}
	if s.DeclaredType != nil {
		dt := *s.DeclaredType
		clone.DeclaredType = &dt
	}
	if s.Labels != nil {
		clone.Labels = append([]string(nil), s.Labels...)
	}
	return &clone
}
