package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/anima-hengine/engine/config"
	"github.com/spaghettifunk/anima-hengine/engine/core"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	config   string
	logLevel string
	logFile  string
}

// logFile is the file logs are redirected to for the running command.
var logFile *os.File

var rootCmd = &cobra.Command{
	Use:   "hengine",
	Short: "Translate Houdini Engine cooks into skeletal mesh assets",
	Long: `hengine reads captured Houdini Engine cooks, finds the packed characters
in them and builds skeletal meshes, skeletons and components from them.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if rootFlags.logFile == "" {
			return nil
		}
		f, err := os.OpenFile(rootFlags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		core.SetLogOutput(f)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if logFile == nil {
			return nil
		}
		core.SetLogOutput(os.Stderr)
		err := logFile.Close()
		logFile = nil
		return err
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.config, "config", "", "TOML configuration file (defaults are used when empty)")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	f.StringVar(&rootFlags.logFile, "log-file", "", "append logs to this file instead of stderr")

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(cookCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.Version = version
}

// loadConfig returns the configuration named by --config, or the defaults,
// with the --log-level override applied.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if rootFlags.config != "" {
		var err error
		if cfg, err = config.Load(rootFlags.config); err != nil {
			return cfg, err
		}
	}
	if rootFlags.logLevel != "" {
		cfg.Log.Level = rootFlags.logLevel
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Execute runs the command line until ctx is cancelled.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
