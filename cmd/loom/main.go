package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Reflective model loading and inspection",
	Long: `Loom loads a metamodel (a type system described as data), registers its
packages, then loads models typed by it - all without generated code.
The inspect commands walk loaded graphs through the reflective API.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .loom.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(watchCmd)
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".loom")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetDefault("metamodel", "")

	viper.SetEnvPrefix("LOOM")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// newLogger builds the CLI logger. Verbose runs get development output;
// otherwise only warnings and up reach the terminal.
func newLogger() *zap.Logger {
	verbose, _ := rootCmd.Flags().GetBool("verbose")
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func printError(err error) {
	header := color.New(color.FgRed, color.Bold)
	header.Fprint(os.Stderr, "error: ")
	fmt.Fprintln(os.Stderr, err)
}
