package metamodel

import "sync"

// BuiltinNsURI is the namespace of the bootstrap metamodel: the package
// whose classes describe packages, classes, attributes, and references
// themselves. A metamodel stream is loaded as instances of these classes,
// which is what breaks the chicken-and-egg problem of loading a type
// system with no registered types.
const BuiltinNsURI = "loom://meta"

// Class names of the bootstrap metamodel.
const (
	MetaPackage   = "Package"
	MetaClass     = "Class"
	MetaAttribute = "Attribute"
	MetaReference = "Reference"
)

// Feature names of the bootstrap metamodel.
const (
	MetaFeatureNsURI       = "nsURI"
	MetaFeatureName        = "name"
	MetaFeatureType        = "type"
	MetaFeatureTarget      = "target"
	MetaFeatureContainment = "containment"
	MetaFeatureClasses     = "classes"
	MetaFeatureAttributes  = "attributes"
	MetaFeatureReferences  = "references"
	MetaFeatureSuperTypes  = "supertypes"
)

var (
	builtinOnce sync.Once
	builtinPkg  *Package
)

// Builtin returns the bootstrap package. The same descriptor instance is
// returned on every call.
func Builtin() *Package {
	builtinOnce.Do(func() {
		attributeClass := &Class{
			Name: MetaAttribute,
			Attributes: []*Attribute{
				{Name: MetaFeatureName, Type: TypeString},
				{Name: MetaFeatureType, Type: TypeString},
			},
		}
		referenceClass := &Class{
			Name: MetaReference,
			Attributes: []*Attribute{
				{Name: MetaFeatureName, Type: TypeString},
				{Name: MetaFeatureTarget, Type: TypeString},
				{Name: MetaFeatureContainment, Type: TypeBool},
			},
		}
		classClass := &Class{
			Name: MetaClass,
			Attributes: []*Attribute{
				{Name: MetaFeatureName, Type: TypeString},
			},
			References: []*Reference{
				{Name: MetaFeatureAttributes, Target: MetaAttribute, Containment: true},
				{Name: MetaFeatureReferences, Target: MetaReference, Containment: true},
				{Name: MetaFeatureSuperTypes, Target: MetaClass, Containment: false},
			},
		}
		packageClass := &Class{
			Name: MetaPackage,
			Attributes: []*Attribute{
				{Name: MetaFeatureNsURI, Type: TypeString},
			},
			References: []*Reference{
				{Name: MetaFeatureClasses, Target: MetaClass, Containment: true},
			},
		}

		pkg, err := NewPackage(BuiltinNsURI, packageClass, classClass, attributeClass, referenceClass)
		if err != nil {
			panic(err) // static definition, cannot fail
		}
		builtinPkg = pkg
	})
	return builtinPkg
}

// BuiltinResolver resolves types against the bootstrap package only. It is
// the resolver a loader uses for the first pass, before any user package
// exists in a registry.
type BuiltinResolver struct{}

// NewBuiltinResolver creates a resolver over the bootstrap package.
func NewBuiltinResolver() *BuiltinResolver {
	return &BuiltinResolver{}
}

// Resolve implements TypeResolver.
func (*BuiltinResolver) Resolve(nsURI, className string) (*Class, error) {
	if nsURI != BuiltinNsURI {
		return nil, &UnknownPackageError{NsURI: nsURI}
	}
	class, ok := Builtin().Class(className)
	if !ok {
		return nil, &UnknownClassError{NsURI: nsURI, Class: className}
	}
	return class, nil
}
