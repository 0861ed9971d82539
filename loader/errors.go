package loader

import (
	"fmt"

	"github.com/loom-modeling/loom/loader/parser"
	"github.com/loom-modeling/loom/metamodel"
)

// MalformedStreamError reports a structurally invalid input stream: lex
// or parse failures, undeclared namespace prefixes, duplicate fragment
// IDs, or containment syntax used on a non-containment reference.
type MalformedStreamError struct {
	Message  string
	Location parser.SourceLocation
	Err      error // Underlying lex/parse error, may be nil
}

// Error implements the error interface
func (e *MalformedStreamError) Error() string {
	if e.Location.Line > 0 {
		return fmt.Sprintf("malformed stream at %s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("malformed stream: %s", e.Message)
}

// Unwrap returns the underlying error
func (e *MalformedStreamError) Unwrap() error {
	return e.Err
}

// AttributeTypeMismatchError reports a literal that cannot be coerced to
// its attribute's declared primitive type.
type AttributeTypeMismatchError struct {
	Class     string
	Attribute string
	Declared  metamodel.PrimitiveType
	Literal   string
	Location  parser.SourceLocation
}

// Error implements the error interface
func (e *AttributeTypeMismatchError) Error() string {
	return fmt.Sprintf("%s: attribute %s.%s declared %s, cannot coerce literal %s",
		e.Location, e.Class, e.Attribute, e.Declared, e.Literal)
}

// UnresolvedReferenceError reports a non-containment link whose target
// fragment ID names no object anywhere in the stream. It is raised only
// after the full stream has been consumed, so forward references get
// every chance to resolve.
type UnresolvedReferenceError struct {
	Class     string
	Reference string
	TargetID  string
	Location  parser.SourceLocation
}

// Error implements the error interface
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s: reference %s.%s points to unknown object #%s",
		e.Location, e.Class, e.Reference, e.TargetID)
}
