package parser

import (
	"fmt"

	"github.com/loom-modeling/loom/loader/lexer"
)

// SourceLocation represents a location in a loom text stream
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// String returns the conventional file:line:column rendering
func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// TokenToLocation builds a SourceLocation from a token
func TokenToLocation(t lexer.Token) SourceLocation {
	return SourceLocation{File: t.File, Line: t.Line, Column: t.Column}
}

// Document is the parsed form of one loom text stream: the declared
// namespace table followed by the root objects. Nothing here is typed
// yet; type resolution happens in the loader.
type Document struct {
	Namespaces []NamespaceDecl
	Roots      []*ObjectNode
}

// NamespaceDecl is a `use <prefix> "<nsURI>"` header entry
type NamespaceDecl struct {
	Prefix   string
	URI      string
	Location SourceLocation
}

// ObjectNode is a serialized object: its type reference, optional
// fragment ID, and body entries in stream order.
type ObjectNode struct {
	Prefix   string // Namespace prefix of the type reference
	Class    string // Class name of the type reference
	ID       string // Fragment ID, "" when the stream declares none
	Attrs    []AttrEntry
	Children []ChildEntry
	Links    []LinkEntry
	Location SourceLocation
}

// AttrEntry is a `name = literal` body entry
type AttrEntry struct {
	Name     string
	Value    Literal
	Location SourceLocation
}

// ChildEntry is a `refName: <nested object>` body entry (containment)
type ChildEntry struct {
	Ref      string
	Object   *ObjectNode
	Location SourceLocation
}

// LinkEntry is a `refName -> #id` body entry (non-containment, resolved
// after the full stream is parsed)
type LinkEntry struct {
	Ref      string
	TargetID string
	Location SourceLocation
}

// LiteralKind discriminates raw literal values
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBool
)

// String returns the string representation of the literal kind
func (k LiteralKind) String() string {
	switch k {
	case LiteralString:
		return "string"
	case LiteralInt:
		return "int"
	case LiteralFloat:
		return "float"
	case LiteralBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Literal is a raw attribute value as it appeared in the stream
type Literal struct {
	Kind  LiteralKind
	Text  string // Original lexeme, for diagnostics
	Str   string
	Int   int64
	Float float64
	Bool  bool
}
