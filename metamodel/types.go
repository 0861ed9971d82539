// Package metamodel defines the descriptor model for loom type systems.
// A Package groups Classes under a globally unique namespace URI; each
// Class declares primitively typed Attributes, typed References to other
// classes, and zero or more supertypes whose features it inherits.
// Descriptors are plain data: there is no generated code behind them, and
// instances of the described classes are built reflectively at load time.
package metamodel

import "fmt"

// PrimitiveType represents the built-in attribute value types.
type PrimitiveType int

const (
	TypeString PrimitiveType = iota
	TypeInt
	TypeFloat
	TypeBool
)

// String returns the string representation of the primitive type
func (p PrimitiveType) String() string {
	switch p {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParsePrimitiveType converts a string to a PrimitiveType
func ParsePrimitiveType(s string) (PrimitiveType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "int":
		return TypeInt, nil
	case "float":
		return TypeFloat, nil
	case "bool":
		return TypeBool, nil
	default:
		return 0, fmt.Errorf("unknown primitive type: %s", s)
	}
}

// Attribute describes a single-valued, primitively typed feature of a class.
type Attribute struct {
	Name string
	Type PrimitiveType
}

// Reference describes a typed link from one class to another class in the
// same package. Containment references own their targets and form the
// containment tree; non-containment references are plain links and may
// form cycles.
type Reference struct {
	Name        string
	Target      string
	Containment bool
}

// Class describes a modeled type.
type Class struct {
	Name       string
	Attributes []*Attribute
	References []*Reference
	SuperTypes []*Class

	pkg *Package
}

// Package returns the package this class was registered under, or nil if
// the class has not been added to a package yet.
func (c *Class) Package() *Package {
	return c.pkg
}

// AllAttributes returns the class's own attributes followed by inherited
// ones, supertypes in declaration order. The result is a fresh slice on
// every call.
func (c *Class) AllAttributes() []*Attribute {
	var out []*Attribute
	seen := map[*Class]bool{}
	c.walkSupertypes(seen, func(cls *Class) {
		out = append(out, cls.Attributes...)
	})
	return out
}

// AllReferences returns the class's own references followed by inherited
// ones, supertypes in declaration order.
func (c *Class) AllReferences() []*Reference {
	var out []*Reference
	seen := map[*Class]bool{}
	c.walkSupertypes(seen, func(cls *Class) {
		out = append(out, cls.References...)
	})
	return out
}

// walkSupertypes visits c and its transitive supertypes in pre-order.
// Each class is visited once even if the supertype graph reaches it
// through more than one path.
func (c *Class) walkSupertypes(seen map[*Class]bool, visit func(*Class)) {
	if seen[c] {
		return
	}
	seen[c] = true
	visit(c)
	for _, super := range c.SuperTypes {
		super.walkSupertypes(seen, visit)
	}
}

// Attribute finds a declared or inherited attribute by name.
func (c *Class) Attribute(name string) (*Attribute, bool) {
	for _, a := range c.AllAttributes() {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Reference finds a declared or inherited reference by name.
func (c *Class) Reference(name string) (*Reference, bool) {
	for _, r := range c.AllReferences() {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// IsSuperTypeOf reports whether c is other or one of other's transitive
// supertypes. This is the dynamic replacement for a language-native type
// check.
func (c *Class) IsSuperTypeOf(other *Class) bool {
	if other == nil {
		return false
	}
	found := false
	seen := map[*Class]bool{}
	other.walkSupertypes(seen, func(cls *Class) {
		if cls == c {
			found = true
		}
	})
	return found
}

// Package groups classes under a globally unique namespace URI. Packages
// are immutable once built; the registry hands out the same descriptor
// pointers to every caller.
type Package struct {
	NsURI   string
	Classes []*Class

	byName map[string]*Class
}

// NewPackage builds a package from its classes. Class names must be
// unique within the package.
func NewPackage(nsURI string, classes ...*Class) (*Package, error) {
	p := &Package{
		NsURI:   nsURI,
		Classes: classes,
		byName:  make(map[string]*Class, len(classes)),
	}
	for _, c := range classes {
		if _, exists := p.byName[c.Name]; exists {
			return nil, fmt.Errorf("package %s declares class %s twice", nsURI, c.Name)
		}
		c.pkg = p
		p.byName[c.Name] = c
	}
	return p, nil
}

// Class finds a class declared in this package by name.
func (p *Package) Class(name string) (*Class, bool) {
	c, ok := p.byName[name]
	return c, ok
}
