package metamodel

import (
	"testing"
)

func TestParsePrimitiveType(t *testing.T) {
	cases := []struct {
		input    string
		expected PrimitiveType
		wantErr  bool
	}{
		{"string", TypeString, false},
		{"int", TypeInt, false},
		{"float", TypeFloat, false},
		{"bool", TypeBool, false},
		{"decimal", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParsePrimitiveType(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
			if got.String() != tc.input {
				t.Errorf("round-trip failed: %s != %s", got.String(), tc.input)
			}
		})
	}
}

func TestNewPackage(t *testing.T) {
	t.Run("classes get a package backpointer", func(t *testing.T) {
		node := &Class{Name: "Node"}
		pkg, err := NewPackage("http://example.com/graph", node)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if node.Package() != pkg {
			t.Error("class should point back at its package")
		}
		if got, ok := pkg.Class("Node"); !ok || got != node {
			t.Error("Class lookup should return the declared class")
		}
	})

	t.Run("duplicate class names rejected", func(t *testing.T) {
		_, err := NewPackage("http://example.com/graph",
			&Class{Name: "Node"}, &Class{Name: "Node"})
		if err == nil {
			t.Error("expected error for duplicate class name")
		}
	})
}

func TestInheritedFeatures(t *testing.T) {
	named := &Class{
		Name:       "Named",
		Attributes: []*Attribute{{Name: "name", Type: TypeString}},
	}
	positioned := &Class{
		Name: "Positioned",
		Attributes: []*Attribute{
			{Name: "x", Type: TypeFloat},
			{Name: "y", Type: TypeFloat},
		},
	}
	node := &Class{
		Name:       "Node",
		Attributes: []*Attribute{{Name: "weight", Type: TypeInt}},
		References: []*Reference{
			{Name: "children", Target: "Node", Containment: true},
		},
		SuperTypes: []*Class{named, positioned},
	}

	t.Run("own attributes precede inherited, supertypes in declaration order", func(t *testing.T) {
		attrs := node.AllAttributes()
		expected := []string{"weight", "name", "x", "y"}
		if len(attrs) != len(expected) {
			t.Fatalf("expected %d attributes, got %d", len(expected), len(attrs))
		}
		for i, name := range expected {
			if attrs[i].Name != name {
				t.Errorf("position %d: expected %s, got %s", i, name, attrs[i].Name)
			}
		}
	})

	t.Run("attribute lookup sees inherited features", func(t *testing.T) {
		attr, ok := node.Attribute("name")
		if !ok {
			t.Fatal("expected inherited attribute 'name'")
		}
		if attr.Type != TypeString {
			t.Errorf("expected string, got %s", attr.Type)
		}
	})

	t.Run("diamond inheritance visits each class once", func(t *testing.T) {
		left := &Class{Name: "Left", SuperTypes: []*Class{named}}
		right := &Class{Name: "Right", SuperTypes: []*Class{named}}
		bottom := &Class{Name: "Bottom", SuperTypes: []*Class{left, right}}

		attrs := bottom.AllAttributes()
		if len(attrs) != 1 {
			t.Fatalf("expected 1 attribute through the diamond, got %d", len(attrs))
		}
		if attrs[0].Name != "name" {
			t.Errorf("expected 'name', got %s", attrs[0].Name)
		}
	})

	t.Run("IsSuperTypeOf walks the ancestor set", func(t *testing.T) {
		if !named.IsSuperTypeOf(node) {
			t.Error("Named should be a supertype of Node")
		}
		if !node.IsSuperTypeOf(node) {
			t.Error("a class is a supertype of itself")
		}
		if node.IsSuperTypeOf(named) {
			t.Error("Node is not a supertype of Named")
		}
	})
}
