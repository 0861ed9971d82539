// Package model holds reflectively typed object graphs. An Object carries
// a pointer to its class descriptor plus raw attribute values and
// reference targets; all feature access goes through the descriptor, so
// the same code paths work for any metamodel, including the bootstrap one.
package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/loom-modeling/loom/metamodel"
)

// NoSuchFeatureError is returned when a feature name does not belong to
// an object's class or any of its supertypes.
type NoSuchFeatureError struct {
	Class   string
	Feature string
}

// Error implements the error interface
func (e *NoSuchFeatureError) Error() string {
	return fmt.Sprintf("class %s has no feature %q", e.Class, e.Feature)
}

// ContainmentError is returned when adding a containment link would give
// an object a second container. The containment graph must stay a forest.
type ContainmentError struct {
	ObjectID  string
	Container string
}

// Error implements the error interface
func (e *ContainmentError) Error() string {
	return fmt.Sprintf("object %s is already contained by %s", e.ObjectID, e.Container)
}

// ValueTypeError is returned when an attribute value does not match the
// attribute's declared primitive type.
type ValueTypeError struct {
	Class     string
	Attribute string
	Declared  metamodel.PrimitiveType
	Value     interface{}
}

// Error implements the error interface
func (e *ValueTypeError) Error() string {
	return fmt.Sprintf("attribute %s.%s declared %s, got %T",
		e.Class, e.Attribute, e.Declared, e.Value)
}

// Object is a reflectively typed model instance.
type Object struct {
	class *metamodel.Class
	id    string

	attrs map[string]interface{}
	refs  map[string][]*Object

	container     *Object
	containingRef string
}

// NewObject allocates an instance of the given class. Objects start with
// a generated fragment ID so every instance is addressable; loaders
// overwrite it when the stream declares an explicit one.
func NewObject(class *metamodel.Class) *Object {
	return &Object{
		class: class,
		id:    uuid.NewString(),
		attrs: make(map[string]interface{}),
		refs:  make(map[string][]*Object),
	}
}

// Class returns the object's type descriptor.
func (o *Object) Class() *metamodel.Class {
	return o.class
}

// ID returns the object's fragment identifier.
func (o *Object) ID() string {
	return o.id
}

// SetID replaces the object's fragment identifier.
func (o *Object) SetID(id string) {
	o.id = id
}

// Container returns the object owning this one through a containment
// reference, or nil for roots.
func (o *Object) Container() *Object {
	return o.container
}

// ContainingReference returns the name of the containment reference this
// object was added under, or "" for roots.
func (o *Object) ContainingReference() string {
	return o.containingRef
}

// IsInstanceOf reports whether the object's class is c or a subtype of c.
func (o *Object) IsInstanceOf(c *metamodel.Class) bool {
	return c.IsSuperTypeOf(o.class)
}

// SetAttribute stores an attribute value after checking the feature
// exists and the value matches its declared primitive type.
func (o *Object) SetAttribute(name string, value interface{}) error {
	attr, ok := o.class.Attribute(name)
	if !ok {
		return &NoSuchFeatureError{Class: o.class.Name, Feature: name}
	}
	if !matchesType(attr.Type, value) {
		return &ValueTypeError{
			Class:     o.class.Name,
			Attribute: name,
			Declared:  attr.Type,
			Value:     value,
		}
	}
	o.attrs[name] = value
	return nil
}

// AddReference appends target to the named reference. For containment
// references the target's container is set, and a target that already has
// a container is refused.
func (o *Object) AddReference(name string, target *Object) error {
	ref, ok := o.class.Reference(name)
	if !ok {
		return &NoSuchFeatureError{Class: o.class.Name, Feature: name}
	}
	if ref.Containment {
		if target.container != nil {
			return &ContainmentError{
				ObjectID:  target.id,
				Container: target.container.id,
			}
		}
		target.container = o
		target.containingRef = name
	}
	o.refs[name] = append(o.refs[name], target)
	return nil
}

// Get reads the named feature. Attributes yield their stored value (nil
// if unset); references yield a copy of the target list.
func (o *Object) Get(name string) (interface{}, error) {
	if _, ok := o.class.Attribute(name); ok {
		return o.attrs[name], nil
	}
	if _, ok := o.class.Reference(name); ok {
		targets := o.refs[name]
		out := make([]*Object, len(targets))
		copy(out, targets)
		return out, nil
	}
	return nil, &NoSuchFeatureError{Class: o.class.Name, Feature: name}
}

// GetReferences reads the named reference's target list.
func (o *Object) GetReferences(name string) ([]*Object, error) {
	if _, ok := o.class.Reference(name); !ok {
		return nil, &NoSuchFeatureError{Class: o.class.Name, Feature: name}
	}
	targets := o.refs[name]
	out := make([]*Object, len(targets))
	copy(out, targets)
	return out, nil
}

func matchesType(t metamodel.PrimitiveType, value interface{}) bool {
	switch t {
	case metamodel.TypeString:
		_, ok := value.(string)
		return ok
	case metamodel.TypeInt:
		_, ok := value.(int64)
		return ok
	case metamodel.TypeFloat:
		_, ok := value.(float64)
		return ok
	case metamodel.TypeBool:
		_, ok := value.(bool)
		return ok
	default:
		return false
	}
}
