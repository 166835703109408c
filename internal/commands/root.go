// Package commands wires the segprep CLI.
package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"segprep/internal/appconfig"
	"segprep/internal/logging"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// app carries the state shared by one command tree.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     appconfig.Config
}

// NewRootCmd builds the segprep command tree around a fresh viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	appconfig.Bind(a.v)

	root := &cobra.Command{
		Use:          "segprep",
		Short:        "segprep: boundary-aware training-sample preparation",
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (json, yaml or toml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("logFile", "", "path to the log file")
	flags.Uint64("seed", 0, "random seed (0 picks one from the clock)")
	flags.Int("workers", 0, "parallel workers (0 = one per CPU)")
	for _, name := range []string{"debug", "logFile", "seed", "workers"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(a.prepareCmd(), a.ingestCmd(), a.statsCmd(), a.showCmd())
	return root
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	defer logging.Close()
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// load merges the config file, env and flags, then starts logging.
func (a *app) load(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg, err := appconfig.FromViper(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logging.Init(cfg.LogFilePath()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetDebug(cfg.Debug)
	logging.Debug("CONFIG", "loaded config file=%q seed=%s policy=%s", cfg.ConfigPath, strconv.FormatUint(cfg.Seed, 10), cfg.Policy)
	return nil
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
