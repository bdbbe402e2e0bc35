// Package main is the entry point for the gauge command: render radial gauges
// to SVG, PNG or a Pixoo panel, and serve stored panels over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jwulff/gauge-go/internal/config"
	"github.com/jwulff/gauge-go/internal/logging"
	"github.com/jwulff/gauge-go/internal/storage"
	"github.com/jwulff/gauge-go/internal/storage/sqlite"
	"github.com/jwulff/gauge-go/internal/theme"
)

var (
	// Persistent flags
	cfgFile   string
	verbose   bool
	themeName string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gauge",
	Short: "Radial gauge renderer",
	Long: `gauge lays out radial gauges (full circles or partial arcs with a value
bar, gradient colors, a thresholds ring and scale labels) and renders them as
SVG, PNG, an ASCII preview or a frame on a Pixoo LED panel.

Panels can be stored in a local SQLite database and served over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if themeName != "" {
			if _, err := theme.ByName(themeName); err != nil {
				return err
			}
		}

		logCfg := cfg.Log
		if verbose {
			logCfg.Level = "debug"
		}
		logger, err = logging.FromConfig(logCfg)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "theme to render with (dark, light)")

	rootCmd.AddCommand(renderCmd, layoutCmd, previewCmd, sendCmd, serveCmd, panelCmd, deviceCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// currentTheme resolves --theme over the configured theme.
func currentTheme() (*theme.Theme, error) {
	return cfg.ResolveTheme(themeName)
}

// openStore opens the configured SQLite store.
func openStore() (storage.Store, error) {
	if cfg.Store.InMemory() {
		logger.Debug("using in-memory store")
		return sqlite.NewMemoryStore()
	}
	logger.Debug("opening store", zap.String("path", cfg.Store.Path))
	return sqlite.NewFileStore(cfg.Store.Path)
}
