package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loom-modeling/loom/loader"
	"github.com/loom-modeling/loom/metamodel"
)

var metaCmd = &cobra.Command{
	Use:   "meta <metamodel-file>",
	Short: "Print the classes and features a metamodel declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer log.Sync()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open metamodel: %w", err)
		}
		defer f.Close()

		packages, err := loader.LoadMetamodel(f, loader.WithSourceName(args[0]), loader.WithLogger(log))
		if err != nil {
			return err
		}

		printMetamodelInfo(packages)
		return nil
	},
}

// printMetamodelInfo lists every class with its declared-plus-inherited
// attributes and references.
func printMetamodelInfo(packages []*metamodel.Package) {
	heading := color.New(color.FgCyan, color.Bold)

	for _, pkg := range packages {
		heading.Printf("Package %s\n", pkg.NsURI)
		for _, class := range pkg.Classes {
			fmt.Printf("  Class %s\n", class.Name)
			for _, attr := range class.AllAttributes() {
				fmt.Printf("\tAttribute %s (type=%s)\n", attr.Name, attr.Type)
			}
			for _, ref := range class.AllReferences() {
				kind := "link"
				if ref.Containment {
					kind = "containment"
				}
				fmt.Printf("\tReference %s (target=%s, %s)\n", ref.Name, ref.Target, kind)
			}
		}
	}
}
