package model

// Resource is a loaded object graph: its root objects plus an index of
// every object by fragment ID. A loader owns the resource exclusively
// until Load returns; afterwards the graph is read-only and safe for
// concurrent readers.
type Resource struct {
	name  string
	roots []*Object
	index map[string]*Object
}

// NewResource creates an empty resource. The name is diagnostic only,
// usually the source file path.
func NewResource(name string) *Resource {
	return &Resource{
		name:  name,
		index: make(map[string]*Object),
	}
}

// Name returns the resource's diagnostic name.
func (r *Resource) Name() string {
	return r.name
}

// AddRoot appends a top-level object.
func (r *Resource) AddRoot(o *Object) {
	r.roots = append(r.roots, o)
}

// Roots returns a copy of the root object list.
func (r *Resource) Roots() []*Object {
	out := make([]*Object, len(r.roots))
	copy(out, r.roots)
	return out
}

// Track adds an object to the fragment index. Returns false if the ID is
// already taken by a different object.
func (r *Resource) Track(o *Object) bool {
	if existing, ok := r.index[o.ID()]; ok && existing != o {
		return false
	}
	r.index[o.ID()] = o
	return true
}

// ObjectByID finds a tracked object by fragment ID.
func (r *Resource) ObjectByID(id string) (*Object, bool) {
	o, ok := r.index[id]
	return o, ok
}

// Len returns the number of tracked objects.
func (r *Resource) Len() int {
	return len(r.index)
}
