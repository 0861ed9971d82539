package metamodel

import (
	"errors"
	"testing"
)

func TestBuiltin(t *testing.T) {
	pkg := Builtin()

	t.Run("same instance on every call", func(t *testing.T) {
		if Builtin() != pkg {
			t.Error("Builtin should return a singleton")
		}
	})

	t.Run("declares the four bootstrap classes", func(t *testing.T) {
		for _, name := range []string{MetaPackage, MetaClass, MetaAttribute, MetaReference} {
			if _, ok := pkg.Class(name); !ok {
				t.Errorf("builtin package should declare %s", name)
			}
		}
	})

	t.Run("class containment features", func(t *testing.T) {
		class, _ := pkg.Class(MetaClass)

		attrs, ok := class.Reference(MetaFeatureAttributes)
		if !ok || !attrs.Containment {
			t.Error("Class.attributes should be a containment reference")
		}
		supers, ok := class.Reference(MetaFeatureSuperTypes)
		if !ok || supers.Containment {
			t.Error("Class.supertypes should be a non-containment reference")
		}
	})
}

func TestBuiltinResolver(t *testing.T) {
	resolver := NewBuiltinResolver()

	t.Run("resolves bootstrap classes", func(t *testing.T) {
		class, err := resolver.Resolve(BuiltinNsURI, MetaClass)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if class.Name != MetaClass {
			t.Errorf("expected %s, got %s", MetaClass, class.Name)
		}
	})

	t.Run("rejects other namespaces", func(t *testing.T) {
		_, err := resolver.Resolve("http://example.com/graph", "Node")
		var unknownPkg *UnknownPackageError
		if !errors.As(err, &unknownPkg) {
			t.Fatalf("expected UnknownPackageError, got %v", err)
		}
	})

	t.Run("rejects unknown bootstrap classes", func(t *testing.T) {
		_, err := resolver.Resolve(BuiltinNsURI, "Widget")
		var unknownClass *UnknownClassError
		if !errors.As(err, &unknownClass) {
			t.Fatalf("expected UnknownClassError, got %v", err)
		}
	})
}
