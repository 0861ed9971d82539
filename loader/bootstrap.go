package loader

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/loom-modeling/loom/metamodel"
	"github.com/loom-modeling/loom/model"
)

// LoadMetamodel reads a metamodel stream and converts it into package
// descriptors ready for registration. The stream is loaded reflectively
// as instances of the built-in bootstrap metamodel; no registry is
// consulted, and none is mutated.
func LoadMetamodel(r io.Reader, opts ...Option) ([]*metamodel.Package, error) {
	res, err := Load(r, metamodel.NewBuiltinResolver(), opts...)
	if err != nil {
		return nil, err
	}
	return PackagesFromModel(res)
}

// PackagesFromModel converts a reflectively loaded metamodel graph into
// package descriptors. Every root object that is an instance of the
// bootstrap Package class contributes one package; other roots are
// ignored, mirroring how the original treats a metamodel resource as just
// another model.
func PackagesFromModel(res *model.Resource) ([]*metamodel.Package, error) {
	packageClass, _ := metamodel.Builtin().Class(metamodel.MetaPackage)

	var packages []*metamodel.Package
	for _, root := range res.Roots() {
		if !root.IsInstanceOf(packageClass) {
			continue
		}
		pkg, err := packageFromObject(root)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

// LoadAndRegister is the common two-step: load a metamodel and register
// every package it declares. The registry is only touched after the whole
// load has succeeded.
func LoadAndRegister(r io.Reader, reg *metamodel.Registry, log *zap.Logger, opts ...Option) ([]*metamodel.Package, error) {
	packages, err := LoadMetamodel(r, opts...)
	if err != nil {
		return nil, err
	}
	for _, pkg := range packages {
		reg.Register(pkg)
		log.Info("classes found",
			zap.String("nsURI", pkg.NsURI),
			zap.Int("count", len(pkg.Classes)))
	}
	return packages, nil
}

func packageFromObject(obj *model.Object) (*metamodel.Package, error) {
	nsURI, err := stringAttr(obj, metamodel.MetaFeatureNsURI)
	if err != nil {
		return nil, err
	}
	if nsURI == "" {
		return nil, fmt.Errorf("package object #%s declares no nsURI", obj.ID())
	}

	classObjs, err := obj.GetReferences(metamodel.MetaFeatureClasses)
	if err != nil {
		return nil, err
	}

	// Two passes: create all class descriptors first so supertype links
	// can be wired regardless of declaration order.
	classes := make([]*metamodel.Class, 0, len(classObjs))
	byObject := make(map[*model.Object]*metamodel.Class, len(classObjs))
	for _, classObj := range classObjs {
		class, err := classFromObject(nsURI, classObj)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
		byObject[classObj] = class
	}

	for _, classObj := range classObjs {
		supers, err := classObj.GetReferences(metamodel.MetaFeatureSuperTypes)
		if err != nil {
			return nil, err
		}
		class := byObject[classObj]
		for _, superObj := range supers {
			super, ok := byObject[superObj]
			if !ok {
				return nil, fmt.Errorf("class %s: supertype #%s is not a class of package %s",
					class.Name, superObj.ID(), nsURI)
			}
			class.SuperTypes = append(class.SuperTypes, super)
		}
	}

	return metamodel.NewPackage(nsURI, classes...)
}

func classFromObject(nsURI string, obj *model.Object) (*metamodel.Class, error) {
	name, err := stringAttr(obj, metamodel.MetaFeatureName)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("class object #%s in package %s declares no name", obj.ID(), nsURI)
	}

	class := &metamodel.Class{Name: name}

	attrObjs, err := obj.GetReferences(metamodel.MetaFeatureAttributes)
	if err != nil {
		return nil, err
	}
	for _, attrObj := range attrObjs {
		attrName, err := stringAttr(attrObj, metamodel.MetaFeatureName)
		if err != nil {
			return nil, err
		}
		typeName, err := stringAttr(attrObj, metamodel.MetaFeatureType)
		if err != nil {
			return nil, err
		}
		primitive, err := metamodel.ParsePrimitiveType(typeName)
		if err != nil {
			return nil, fmt.Errorf("attribute %s.%s: %w", name, attrName, err)
		}
		class.Attributes = append(class.Attributes, &metamodel.Attribute{
			Name: attrName,
			Type: primitive,
		})
	}

	refObjs, err := obj.GetReferences(metamodel.MetaFeatureReferences)
	if err != nil {
		return nil, err
	}
	for _, refObj := range refObjs {
		refName, err := stringAttr(refObj, metamodel.MetaFeatureName)
		if err != nil {
			return nil, err
		}
		target, err := stringAttr(refObj, metamodel.MetaFeatureTarget)
		if err != nil {
			return nil, err
		}
		containment, err := boolAttr(refObj, metamodel.MetaFeatureContainment)
		if err != nil {
			return nil, err
		}
		class.References = append(class.References, &metamodel.Reference{
			Name:        refName,
			Target:      target,
			Containment: containment,
		})
	}

	return class, nil
}

func stringAttr(obj *model.Object, name string) (string, error) {
	v, err := obj.Get(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("feature %s of #%s: expected string, got %T", name, obj.ID(), v)
	}
	return s, nil
}

func boolAttr(obj *model.Object, name string) (bool, error) {
	v, err := obj.Get(name)
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("feature %s of #%s: expected bool, got %T", name, obj.ID(), v)
	}
	return b, nil
}
