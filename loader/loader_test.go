package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-modeling/loom/metamodel"
	"github.com/loom-modeling/loom/model"
)

const graphNsURI = "g1"

// graphRegistry registers the Node/Edge metamodel from the package test
// scenario: Node{name: string}, Edge{source, target: Node links}, plus a
// Graph root class containing both.
func graphRegistry(t *testing.T) *metamodel.Registry {
	t.Helper()

	node := &metamodel.Class{
		Name:       "Node",
		Attributes: []*metamodel.Attribute{{Name: "name", Type: metamodel.TypeString}},
	}
	edge := &metamodel.Class{
		Name: "Edge",
		References: []*metamodel.Reference{
			{Name: "source", Target: "Node"},
			{Name: "target", Target: "Node"},
		},
	}
	graph := &metamodel.Class{
		Name: "Graph",
		Attributes: []*metamodel.Attribute{
			{Name: "name", Type: metamodel.TypeString},
			{Name: "weight", Type: metamodel.TypeInt},
			{Name: "score", Type: metamodel.TypeFloat},
			{Name: "active", Type: metamodel.TypeBool},
		},
		References: []*metamodel.Reference{
			{Name: "nodes", Target: "Node", Containment: true},
			{Name: "edges", Target: "Edge", Containment: true},
		},
	}
	pkg, err := metamodel.NewPackage(graphNsURI, graph, node, edge)
	require.NoError(t, err)

	registry := metamodel.NewRegistry()
	registry.Register(pkg)
	return registry
}

const graphModel = `
use g "g1"

g:Graph #root {
	name = "demo"
	nodes: g:Node #a { name = "A" }
	nodes: g:Node #b { name = "B" }
	edges: g:Edge #e { source -> #a target -> #b }
}
`

func TestLoad(t *testing.T) {
	t.Run("loads a typed graph", func(t *testing.T) {
		registry := graphRegistry(t)
		res, err := Load(strings.NewReader(graphModel), registry)
		require.NoError(t, err)

		roots := res.Roots()
		require.Len(t, roots, 1)
		root := roots[0]
		assert.Equal(t, "Graph", root.Class().Name)
		assert.Equal(t, "root", root.ID())

		name, err := root.Get("name")
		require.NoError(t, err)
		assert.Equal(t, "demo", name)

		assert.Equal(t, 4, res.Len())
	})

	t.Run("edge references resolve to the named nodes", func(t *testing.T) {
		registry := graphRegistry(t)
		res, err := Load(strings.NewReader(graphModel), registry)
		require.NoError(t, err)

		edge, ok := res.ObjectByID("e")
		require.True(t, ok)

		refs := edge.Class().AllReferences()
		require.Len(t, refs, 2)
		assert.Equal(t, "source", refs[0].Name)
		assert.Equal(t, "target", refs[1].Name)

		source, err := edge.GetReferences("source")
		require.NoError(t, err)
		require.Len(t, source, 1)
		sourceName, err := source[0].Get("name")
		require.NoError(t, err)
		assert.Equal(t, "A", sourceName)
	})

	t.Run("containment sets containers, links do not", func(t *testing.T) {
		registry := graphRegistry(t)
		res, err := Load(strings.NewReader(graphModel), registry)
		require.NoError(t, err)

		root := res.Roots()[0]
		a, _ := res.ObjectByID("a")
		assert.Same(t, root, a.Container())

		// Traversal covers exactly the containment tree.
		got := res.AllContents().Collect()
		assert.Len(t, got, 4)
	})

	t.Run("forward links resolve after the full stream", func(t *testing.T) {
		registry := graphRegistry(t)
		res, err := Load(strings.NewReader(`
			use g "g1"
			g:Graph {
				edges: g:Edge { source -> #late target -> #late }
				nodes: g:Node #late { name = "L" }
			}
		`), registry)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Len())
	})

	t.Run("multiple roots", func(t *testing.T) {
		registry := graphRegistry(t)
		res, err := Load(strings.NewReader(`
			use g "g1"
			g:Node #a { name = "A" }
			g:Node #b { name = "B" }
		`), registry)
		require.NoError(t, err)
		assert.Len(t, res.Roots(), 2)
	})

	t.Run("objects without explicit IDs get generated ones", func(t *testing.T) {
		registry := graphRegistry(t)
		res, err := Load(strings.NewReader(`
			use g "g1"
			g:Node { name = "anon" }
		`), registry)
		require.NoError(t, err)
		assert.NotEmpty(t, res.Roots()[0].ID())
	})

	t.Run("attribute coercion honors declared types", func(t *testing.T) {
		registry := graphRegistry(t)
		res, err := Load(strings.NewReader(`
			use g "g1"
			g:Graph { name = "n" weight = 3 score = 4 active = true }
		`), registry)
		require.NoError(t, err)

		root := res.Roots()[0]
		weight, _ := root.Get("weight")
		assert.Equal(t, int64(3), weight)
		score, _ := root.Get("score")
		assert.Equal(t, float64(4), score, "int literal widens to a declared float")
		active, _ := root.Get("active")
		assert.Equal(t, true, active)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown package before registration, success after", func(t *testing.T) {
		empty := metamodel.NewRegistry()
		_, err := Load(strings.NewReader(graphModel), empty)

		var unknownPkg *metamodel.UnknownPackageError
		require.ErrorAs(t, err, &unknownPkg)
		assert.Equal(t, graphNsURI, unknownPkg.NsURI)

		_, err = Load(strings.NewReader(graphModel), graphRegistry(t))
		assert.NoError(t, err)
	})

	t.Run("unknown class", func(t *testing.T) {
		registry := graphRegistry(t)
		_, err := Load(strings.NewReader(`
			use g "g1"
			g:Vertex { }
		`), registry)

		var unknownClass *metamodel.UnknownClassError
		require.ErrorAs(t, err, &unknownClass)
		assert.Equal(t, "Vertex", unknownClass.Class)
	})

	t.Run("attribute type mismatch aborts the load", func(t *testing.T) {
		registry := graphRegistry(t)
		_, err := Load(strings.NewReader(`
			use g "g1"
			g:Graph { weight = "abc" }
		`), registry)

		var mismatch *AttributeTypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "weight", mismatch.Attribute)
		assert.Equal(t, metamodel.TypeInt, mismatch.Declared)
		assert.NotZero(t, mismatch.Location.Line)

		// The registry is untouched by the failed load.
		assert.Equal(t, 1, registry.Count())
	})

	t.Run("unresolved reference is raised after the full stream", func(t *testing.T) {
		registry := graphRegistry(t)
		_, err := Load(strings.NewReader(`
			use g "g1"
			g:Graph {
				nodes: g:Node #a { name = "A" }
				edges: g:Edge { source -> #a target -> #missing }
			}
		`), registry)

		var unresolved *UnresolvedReferenceError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "missing", unresolved.TargetID)
		assert.Equal(t, "target", unresolved.Reference)
	})

	t.Run("malformed stream", func(t *testing.T) {
		registry := graphRegistry(t)
		cases := map[string]string{
			"lex failure":           `use g "g1"` + "\ng:Node { name = \"unterminated }",
			"parse failure":         `use g "g1"` + "\ng:Node {",
			"undeclared prefix":     "x:Node { }",
			"duplicate prefix":      `use g "g1"` + "\n" + `use g "g1"` + "\ng:Node { }",
			"duplicate fragment ID": `use g "g1"` + "\ng:Node #a { }\ng:Node #a { }",
			"link on containment":   `use g "g1"` + "\ng:Node #a { }\ng:Graph { nodes -> #a }",
			"nesting on link":       `use g "g1"` + "\ng:Edge { source: g:Node { } }",
		}

		for name, source := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := Load(strings.NewReader(source), registry)
				var malformed *MalformedStreamError
				require.ErrorAs(t, err, &malformed, "got %v", err)
			})
		}
	})

	t.Run("unknown feature in stream", func(t *testing.T) {
		registry := graphRegistry(t)
		_, err := Load(strings.NewReader(`
			use g "g1"
			g:Node { label = "x" }
		`), registry)

		var noFeature *model.NoSuchFeatureError
		require.ErrorAs(t, err, &noFeature)
		assert.Equal(t, "label", noFeature.Feature)
	})
}
