// Package loader parses loom text streams into reflectively typed object
// graphs. Types are resolved against a caller-supplied resolver, so the
// same loader serves two passes: bootstrapping a metamodel against the
// built-in descriptors, then loading models against a registry the caller
// filled from that metamodel.
package loader

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/loom-modeling/loom/loader/lexer"
	"github.com/loom-modeling/loom/loader/parser"
	"github.com/loom-modeling/loom/metamodel"
	"github.com/loom-modeling/loom/model"
)

// Option configures a load.
type Option func(*config)

type config struct {
	log    *zap.Logger
	source string
}

// WithLogger sets the logger for load events.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithSourceName sets the diagnostic name used in locations and on the
// resulting resource, usually the input file path.
func WithSourceName(name string) Option {
	return func(c *config) {
		c.source = name
	}
}

// deferredLink is a non-containment reference waiting for its target.
// Links are collected during the structural pass and resolved once the
// whole graph is materialized.
type deferredLink struct {
	source   *model.Object
	ref      string
	targetID string
	location parser.SourceLocation
}

// Load parses one stream into a resource. The operation is all-or-nothing:
// on any error the returned resource is nil and nothing observable has
// changed. Load never mutates a registry; registering loaded packages is
// the caller's decision.
func Load(r io.Reader, resolver metamodel.TypeResolver, opts ...Option) (*model.Resource, error) {
	cfg := &config{
		log:    zap.NewNop(),
		source: "stream",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &MalformedStreamError{Message: "cannot read stream", Err: err}
	}

	tokens, lexErrors := lexer.New(string(data), cfg.source).ScanTokens()
	if len(lexErrors) > 0 {
		first := lexErrors[0]
		return nil, &MalformedStreamError{
			Message:  first.Message,
			Location: parser.SourceLocation{File: first.File, Line: first.Line, Column: first.Column},
			Err:      first,
		}
	}

	doc, err := parser.New(tokens).Parse()
	if err != nil {
		if parseErr, ok := err.(*parser.ParseError); ok {
			return nil, &MalformedStreamError{
				Message:  parseErr.Message,
				Location: parseErr.Location,
				Err:      parseErr,
			}
		}
		return nil, &MalformedStreamError{Message: err.Error(), Err: err}
	}

	b := &builder{
		resolver:   resolver,
		resource:   model.NewResource(cfg.source),
		namespaces: make(map[string]string, len(doc.Namespaces)),
	}

	for _, ns := range doc.Namespaces {
		if _, exists := b.namespaces[ns.Prefix]; exists {
			return nil, &MalformedStreamError{
				Message:  fmt.Sprintf("namespace prefix %q declared twice", ns.Prefix),
				Location: ns.Location,
			}
		}
		b.namespaces[ns.Prefix] = ns.URI
	}

	for _, node := range doc.Roots {
		obj, err := b.buildObject(node)
		if err != nil {
			return nil, err
		}
		b.resource.AddRoot(obj)
	}

	if err := b.resolveLinks(); err != nil {
		return nil, err
	}

	cfg.log.Info("resource loaded",
		zap.String("source", cfg.source),
		zap.Int("objects", b.resource.Len()),
		zap.Int("roots", len(doc.Roots)),
		zap.Int("deferredLinks", len(b.backlog)))

	return b.resource, nil
}

// builder carries the state of one load: the namespace table, the
// resource under construction, and the deferred-link backlog.
type builder struct {
	resolver   metamodel.TypeResolver
	resource   *model.Resource
	namespaces map[string]string
	backlog    []deferredLink
}

// buildObject constructs one object and, recursively, everything it
// contains. Non-containment links are deferred.
func (b *builder) buildObject(node *parser.ObjectNode) (*model.Object, error) {
	nsURI, ok := b.namespaces[node.Prefix]
	if !ok {
		return nil, &MalformedStreamError{
			Message:  fmt.Sprintf("namespace prefix %q not declared", node.Prefix),
			Location: node.Location,
		}
	}

	class, err := b.resolver.Resolve(nsURI, node.Class)
	if err != nil {
		return nil, err
	}

	obj := model.NewObject(class)
	if node.ID != "" {
		obj.SetID(node.ID)
	}
	if !b.resource.Track(obj) {
		return nil, &MalformedStreamError{
			Message:  fmt.Sprintf("fragment ID #%s declared twice", node.ID),
			Location: node.Location,
		}
	}

	for _, attr := range node.Attrs {
		if err := b.setAttribute(obj, attr); err != nil {
			return nil, err
		}
	}

	for _, child := range node.Children {
		ref, ok := class.Reference(child.Ref)
		if !ok {
			return nil, &model.NoSuchFeatureError{Class: class.Name, Feature: child.Ref}
		}
		if !ref.Containment {
			return nil, &MalformedStreamError{
				Message:  fmt.Sprintf("reference %s.%s is not a containment reference, use '->' links", class.Name, child.Ref),
				Location: child.Location,
			}
		}
		childObj, err := b.buildObject(child.Object)
		if err != nil {
			return nil, err
		}
		if err := obj.AddReference(child.Ref, childObj); err != nil {
			return nil, err
		}
	}

	for _, link := range node.Links {
		ref, ok := class.Reference(link.Ref)
		if !ok {
			return nil, &model.NoSuchFeatureError{Class: class.Name, Feature: link.Ref}
		}
		if ref.Containment {
			return nil, &MalformedStreamError{
				Message:  fmt.Sprintf("reference %s.%s is a containment reference, use nested objects", class.Name, link.Ref),
				Location: link.Location,
			}
		}
		b.backlog = append(b.backlog, deferredLink{
			source:   obj,
			ref:      link.Ref,
			targetID: link.TargetID,
			location: link.Location,
		})
	}

	return obj, nil
}

// setAttribute coerces the raw literal to the attribute's declared type
// and stores it.
func (b *builder) setAttribute(obj *model.Object, attr parser.AttrEntry) error {
	class := obj.Class()
	desc, ok := class.Attribute(attr.Name)
	if !ok {
		return &model.NoSuchFeatureError{Class: class.Name, Feature: attr.Name}
	}

	value, ok := coerce(desc.Type, attr.Value)
	if !ok {
		return &AttributeTypeMismatchError{
			Class:     class.Name,
			Attribute: attr.Name,
			Declared:  desc.Type,
			Literal:   attr.Value.Text,
			Location:  attr.Location,
		}
	}

	return obj.SetAttribute(attr.Name, value)
}

// coerce converts a raw literal to the declared primitive type. Integer
// literals widen to float where a float is declared; nothing else
// converts across kinds.
func coerce(declared metamodel.PrimitiveType, lit parser.Literal) (interface{}, bool) {
	switch declared {
	case metamodel.TypeString:
		if lit.Kind == parser.LiteralString {
			return lit.Str, true
		}
	case metamodel.TypeInt:
		if lit.Kind == parser.LiteralInt {
			return lit.Int, true
		}
	case metamodel.TypeFloat:
		if lit.Kind == parser.LiteralFloat {
			return lit.Float, true
		}
		if lit.Kind == parser.LiteralInt {
			return float64(lit.Int), true
		}
	case metamodel.TypeBool:
		if lit.Kind == parser.LiteralBool {
			return lit.Bool, true
		}
	}
	return nil, false
}

// resolveLinks drains the backlog once every object in the stream exists.
func (b *builder) resolveLinks() error {
	for _, link := range b.backlog {
		target, ok := b.resource.ObjectByID(link.targetID)
		if !ok {
			return &UnresolvedReferenceError{
				Class:     link.source.Class().Name,
				Reference: link.ref,
				TargetID:  link.targetID,
				Location:  link.location,
			}
		}
		if err := link.source.AddReference(link.ref, target); err != nil {
			return err
		}
	}
	return nil
}
