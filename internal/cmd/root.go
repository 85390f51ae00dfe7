// Package cmd implements tidy's command line.
package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tidy/internal/config"
	"tidy/internal/output"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ErrOperationFailed is returned when a command ran but part of its work
// failed. The details have already been printed.
var ErrOperationFailed = errors.New("operation completed with errors")

// NewRootCommand creates and returns the root cobra command for tidy
func NewRootCommand() *cobra.Command {
	a := newApp()

	cmd := &cobra.Command{
		Use:   "tidy",
		Short: "Sort the files of a folder into category subfolders",
		Long: `Tidy inspects, searches and organizes the files directly inside one folder.

Files are grouped by extension into category subfolders such as Documents,
Images or Archives. Every command that changes files shows what it will do
first and asks before committing. Committed changes are journaled so they
can be undone.

Run without a command, tidy follows the defaultAction setting.`,
		Version:      Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		// main prints errors so ErrOperationFailed is not reported twice
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDefault()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("path", "p", "", "Folder to work on (default: current directory)")
	flags.Bool("last", false, "Work on the folder tidy last worked on")
	flags.String("config", "", "Config file (default: $XDG_CONFIG_HOME/tidy/config.json)")
	flags.String("categories", "", "Category mapping file (JSON or YAML) replacing the built-in one")
	flags.String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.String("log-format", "console", "Log format: console or json")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.Bool("no-exclude", false, "Ignore the configured exclude patterns")
	flags.Bool("json", false, "Output in JSON format")
	_ = a.v.BindPFlags(flags)

	cmd.AddCommand(newInfoCommand(a))
	cmd.AddCommand(newCountCommand(a))
	cmd.AddCommand(newSearchCommand(a))
	cmd.AddCommand(newLargestCommand(a))
	cmd.AddCommand(newFindDirsCommand(a))
	cmd.AddCommand(newPreviewCommand(a))
	cmd.AddCommand(newOrganizeCommand(a))
	cmd.AddCommand(newMoveCommand(a))
	cmd.AddCommand(newDeleteCommand(a))
	cmd.AddCommand(newHistoryCommand(a))
	cmd.AddCommand(newUndoCommand(a))
	cmd.AddCommand(newConfigCommand(a))

	return cmd
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix("TIDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{v: v, logger: zap.NewNop(), out: output.New(output.DefaultConfig())}
}

// runDefault handles a bare `tidy`.
func (a *app) runDefault() error {
	switch a.cfg.DefaultAction {
	case config.ActionPreview:
		return a.runPreview()
	case config.ActionOrganize:
		return a.runOrganize(false, false)
	default:
		if a.jsonOutput() {
			return a.runInfo()
		}
		if err := a.runInfo(); err != nil {
			return err
		}
		a.out.Info("")
		return a.runOrganize(false, false)
	}
}
