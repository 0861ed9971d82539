package metamodel

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// TypeResolver resolves a serialized (namespace, class) pair to a class
// descriptor. The Registry is the usual implementation; the loader uses a
// BuiltinResolver while bootstrapping a metamodel.
type TypeResolver interface {
	Resolve(nsURI, className string) (*Class, error)
}

// UnknownPackageError is returned when a namespace URI has not been
// registered.
type UnknownPackageError struct {
	NsURI string
}

// Error implements the error interface
func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("no package registered for namespace %q", e.NsURI)
}

// UnknownClassError is returned when a namespace is registered but does
// not declare the requested class.
type UnknownClassError struct {
	NsURI string
	Class string
}

// Error implements the error interface
func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("package %q has no class %q", e.NsURI, e.Class)
}

// Registry maps namespace URIs to package descriptors. Registration must
// complete before concurrent readers resolve against the entry; the
// RWMutex serializes writers with respect to readers.
type Registry struct {
	mu       sync.RWMutex
	packages map[string]*Package
	log      *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(log *zap.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = log
	}
}

// NewRegistry creates an empty registry. Tests should create their own
// registry per case rather than sharing one across cases.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		packages: make(map[string]*Package),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register inserts the package under its namespace URI, replacing any
// previous entry. Replacement is logged at warn level; a package registry
// is expected to tolerate reloads.
func (r *Registry) Register(pkg *Package) {
	r.mu.Lock()
	_, replaced := r.packages[pkg.NsURI]
	r.packages[pkg.NsURI] = pkg
	r.mu.Unlock()

	if replaced {
		r.log.Warn("package replaced",
			zap.String("nsURI", pkg.NsURI),
			zap.Int("classes", len(pkg.Classes)))
		return
	}
	r.log.Info("package registered",
		zap.String("nsURI", pkg.NsURI),
		zap.Int("classes", len(pkg.Classes)))
}

// Resolve implements TypeResolver against the registered packages.
func (r *Registry) Resolve(nsURI, className string) (*Class, error) {
	r.mu.RLock()
	pkg, ok := r.packages[nsURI]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownPackageError{NsURI: nsURI}
	}
	class, ok := pkg.Class(className)
	if !ok {
		return nil, &UnknownClassError{NsURI: nsURI, Class: className}
	}
	return class, nil
}

// Package retrieves a registered package by namespace URI.
func (r *Registry) Package(nsURI string) (*Package, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pkg, ok := r.packages[nsURI]
	return pkg, ok
}

// Packages returns a copy of all registered packages.
func (r *Registry) Packages() []*Package {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Package, 0, len(r.packages))
	for _, uri := range r.listLocked() {
		out = append(out, r.packages[uri])
	}
	return out
}

// List returns the registered namespace URIs in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listLocked()
}

func (r *Registry) listLocked() []string {
	uris := make([]string, 0, len(r.packages))
	for uri := range r.packages {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// Count returns the number of registered packages.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.packages)
}

// Clear removes all registered packages (useful for testing).
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.packages = make(map[string]*Package)
}
