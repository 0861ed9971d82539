package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-modeling/loom/metamodel"
	"go.uber.org/zap"
)

const graphMetamodel = `
use meta "loom://meta"

meta:Package {
	nsURI = "http://example.com/graph"
	classes: meta:Class #named {
		name = "Named"
		attributes: meta:Attribute { name = "name" type = "string" }
	}
	classes: meta:Class #node {
		name = "Node"
		supertypes -> #named
		attributes: meta:Attribute { name = "weight" type = "int" }
	}
	classes: meta:Class #edge {
		name = "Edge"
		references: meta:Reference { name = "source" target = "Node" }
		references: meta:Reference { name = "target" target = "Node" }
	}
	classes: meta:Class #graph {
		name = "Graph"
		supertypes -> #named
		references: meta:Reference { name = "nodes" target = "Node" containment = true }
		references: meta:Reference { name = "edges" target = "Edge" containment = true }
	}
}
`

func TestLoadMetamodel(t *testing.T) {
	t.Run("builds package descriptors from a metamodel stream", func(t *testing.T) {
		packages, err := LoadMetamodel(strings.NewReader(graphMetamodel))
		require.NoError(t, err)
		require.Len(t, packages, 1)

		pkg := packages[0]
		assert.Equal(t, "http://example.com/graph", pkg.NsURI)
		require.Len(t, pkg.Classes, 4)

		node, ok := pkg.Class("Node")
		require.True(t, ok)
		require.Len(t, node.SuperTypes, 1)
		assert.Equal(t, "Named", node.SuperTypes[0].Name)

		// Declared then inherited.
		attrs := node.AllAttributes()
		require.Len(t, attrs, 2)
		assert.Equal(t, "weight", attrs[0].Name)
		assert.Equal(t, metamodel.TypeInt, attrs[0].Type)
		assert.Equal(t, "name", attrs[1].Name)

		graph, ok := pkg.Class("Graph")
		require.True(t, ok)
		refs := graph.AllReferences()
		require.Len(t, refs, 2)
		assert.True(t, refs[0].Containment)
		assert.Equal(t, "Node", refs[0].Target)

		edge, _ := pkg.Class("Edge")
		for _, ref := range edge.AllReferences() {
			assert.False(t, ref.Containment)
		}
	})

	t.Run("metamodel then model end to end", func(t *testing.T) {
		registry := metamodel.NewRegistry()
		_, err := LoadAndRegister(strings.NewReader(graphMetamodel), registry, zap.NewNop())
		require.NoError(t, err)

		res, err := Load(strings.NewReader(`
			use g "http://example.com/graph"
			g:Graph {
				name = "demo"
				nodes: g:Node #a { name = "A" weight = 1 }
				nodes: g:Node #b { name = "B" weight = 2 }
				edges: g:Edge { source -> #a target -> #b }
			}
		`), registry)
		require.NoError(t, err)

		it := res.AllContents()
		var classNames []string
		for obj, ok := it.Next(); ok; obj, ok = it.Next() {
			classNames = append(classNames, obj.Class().Name)
		}
		assert.Equal(t, []string{"Graph", "Node", "Node", "Edge"}, classNames)

		a, ok := res.ObjectByID("a")
		require.True(t, ok)
		name, err := a.Get("name") // Inherited from Named
		require.NoError(t, err)
		assert.Equal(t, "A", name)
	})

	t.Run("a metamodel is itself a model of the bootstrap package", func(t *testing.T) {
		res, err := Load(strings.NewReader(graphMetamodel), metamodel.NewBuiltinResolver())
		require.NoError(t, err)

		// 1 package + 4 classes + 2 attributes + 4 references
		assert.Equal(t, 11, res.Len())

		packageClass, _ := metamodel.Builtin().Class(metamodel.MetaPackage)
		assert.True(t, res.Roots()[0].IsInstanceOf(packageClass))
	})

	t.Run("unknown primitive type name", func(t *testing.T) {
		_, err := LoadMetamodel(strings.NewReader(`
			use meta "loom://meta"
			meta:Package {
				nsURI = "x"
				classes: meta:Class {
					name = "C"
					attributes: meta:Attribute { name = "a" type = "decimal" }
				}
			}
		`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown primitive type")
	})

	t.Run("package without nsURI is rejected", func(t *testing.T) {
		_, err := LoadMetamodel(strings.NewReader(`
			use meta "loom://meta"
			meta:Package { }
		`))
		require.Error(t, err)
	})

	t.Run("non-package roots are ignored", func(t *testing.T) {
		packages, err := LoadMetamodel(strings.NewReader(`
			use meta "loom://meta"
			meta:Class { name = "Stray" }
			meta:Package {
				nsURI = "x"
				classes: meta:Class { name = "C" }
			}
		`))
		require.NoError(t, err)
		require.Len(t, packages, 1)
		assert.Equal(t, "x", packages[0].NsURI)
	})
}
