package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/loom-modeling/loom/metamodel"
)

var watchMetamodelPath string

func init() {
	watchCmd.Flags().StringVarP(&watchMetamodelPath, "metamodel", "m", "",
		"metamodel file to register before loading (default from config)")
}

var watchCmd = &cobra.Command{
	Use:   "watch <model-file>",
	Short: "Re-inspect a model whenever it or its metamodel changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer log.Sync()

		metamodelPath := watchMetamodelPath
		if metamodelPath == "" {
			metamodelPath = viper.GetString("metamodel")
		}
		if metamodelPath == "" {
			return fmt.Errorf("no metamodel given: use --metamodel or set it in .loom.toml")
		}
		modelPath := args[0]

		run := func() {
			registry := metamodel.NewRegistry(metamodel.WithLogger(log))
			if err := registerMetamodel(registry, metamodelPath, log); err != nil {
				printError(err)
				return
			}
			res, err := loadModel(modelPath, registry, log)
			if err != nil {
				printError(err)
				return
			}
			printModelInfo(res)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer watcher.Close()

		// Watch the containing directories: editors often replace files
		// rather than writing them in place, which drops inode watches.
		watched := map[string]bool{
			filepath.Clean(metamodelPath): true,
			filepath.Clean(modelPath):     true,
		}
		for path := range watched {
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}

		run()
		log.Info("watching for changes",
			zap.String("metamodel", metamodelPath),
			zap.String("model", modelPath))

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

		// Debounce: editors fire several events per save.
		var pending *time.Timer
		debounced := make(chan struct{}, 1)

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !watched[filepath.Clean(event.Name)] {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(100*time.Millisecond, func() {
					select {
					case debounced <- struct{}{}:
					default:
					}
				})
			case <-debounced:
				run()
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Warn("watch error", zap.Error(err))
			case <-sigs:
				return nil
			}
		}
	},
}
