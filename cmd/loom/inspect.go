package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/loom-modeling/loom/loader"
	"github.com/loom-modeling/loom/metamodel"
	"github.com/loom-modeling/loom/model"
)

var inspectMetamodelPath string

func init() {
	inspectCmd.Flags().StringVarP(&inspectMetamodelPath, "metamodel", "m", "",
		"metamodel file to register before loading (default from config)")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <model-file>",
	Short: "Load a model against its metamodel and print its contents",
	Long: `Loads the metamodel, registers its packages, loads the model against the
registry, then walks every contained object printing attribute values and
reference targets through the reflective API.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer log.Sync()

		metamodelPath := inspectMetamodelPath
		if metamodelPath == "" {
			metamodelPath = viper.GetString("metamodel")
		}
		if metamodelPath == "" {
			return fmt.Errorf("no metamodel given: use --metamodel or set it in .loom.toml")
		}

		registry := metamodel.NewRegistry(metamodel.WithLogger(log))
		if err := registerMetamodel(registry, metamodelPath, log); err != nil {
			return err
		}

		res, err := loadModel(args[0], registry, log)
		if err != nil {
			return err
		}

		printModelInfo(res)
		return nil
	},
}

func registerMetamodel(registry *metamodel.Registry, path string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open metamodel: %w", err)
	}
	defer f.Close()

	log.Info("loading metamodel", zap.String("file", path))
	_, err = loader.LoadAndRegister(f, registry, log, loader.WithSourceName(path), loader.WithLogger(log))
	return err
}

func loadModel(path string, registry *metamodel.Registry, log *zap.Logger) (*model.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open model: %w", err)
	}
	defer f.Close()

	log.Info("loading model", zap.String("file", path))
	return loader.Load(f, registry, loader.WithSourceName(path), loader.WithLogger(log))
}

// printModelInfo walks all contents printing each instance with the
// values of its declared and inherited features.
func printModelInfo(res *model.Resource) {
	heading := color.New(color.FgCyan, color.Bold)

	it := res.AllContents()
	for obj, ok := it.Next(); ok; obj, ok = it.Next() {
		heading.Printf("Instance of %s", obj.Class().Name)
		fmt.Printf(" #%s\n", obj.ID())

		for _, attr := range obj.Class().AllAttributes() {
			value, _ := obj.Get(attr.Name)
			if value == nil {
				fmt.Printf("\tAttribute %q = <unset>\n", attr.Name)
				continue
			}
			fmt.Printf("\tAttribute %q = %v\n", attr.Name, value)
		}

		for _, ref := range obj.Class().AllReferences() {
			targets, _ := obj.GetReferences(ref.Name)
			ids := make([]string, len(targets))
			for i, t := range targets {
				ids[i] = "#" + t.ID()
			}
			fmt.Printf("\tReference %q = [%s]\n", ref.Name, strings.Join(ids, ", "))
		}
	}
}
