package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tidy/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or reset tidy's settings",
		Long: `Show or reset tidy's settings.

Settings live in a JSON file; edit it directly to change them. Every flag
can also be set with a TIDY_ environment variable, e.g. TIDY_LOG_LEVEL=debug.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the location of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out.Info("%s", a.cfgPath)
			return nil
		},
	})
	cmd.AddCommand(newConfigValidateCommand(a))
	cmd.AddCommand(newConfigResetCommand(a))

	return cmd
}

func (a *app) runConfigShow() error {
	if a.jsonOutput() {
		return a.out.JSON(a.cfg)
	}

	c := a.cfg
	custom := "none"
	if c.CustomCategories != nil && c.CustomCategories.Len() > 0 {
		custom = strings.Join(c.CustomCategories.Names(), ", ")
	}
	categoriesFile := c.CategoriesFile
	if categoriesFile == "" {
		categoriesFile = "built-in"
	}
	lastFolder := c.LastFolder
	if lastFolder == "" {
		lastFolder = "-"
	}

	a.out.Settings(a.cfgPath, [][2]string{
		{"defaultAction", c.DefaultAction},
		{"autoConfirm", fmt.Sprint(c.AutoConfirm)},
		{"excludePatterns", strings.Join(c.ExcludePatterns, ", ")},
		{"customCategories", custom},
		{"categoriesFile", categoriesFile},
		{"theme", c.Theme},
		{"rememberLastFolder", fmt.Sprint(c.RememberLastFolder)},
		{"lastFolder", lastFolder},
		{"enableUndo", fmt.Sprint(c.EnableUndo)},
		{"maxUndoHistory", fmt.Sprint(c.MaxUndoHistory)},
		{"journalDirectory", c.JournalDir(a.cfgPath)},
		{"logLevel", c.LogLevel},
	})
	a.out.Info("")
	a.out.Verbose("Edit the file directly to modify settings")
	return nil
}

func newConfigValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the settings and report every problem found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfgBroken && a.rawCfg == nil {
				// the file did not parse, so there is nothing to check
				if a.jsonOutput() {
					if err := a.out.JSON(map[string]string{"error": a.cfgErr.Error()}); err != nil {
						return err
					}
				} else {
					a.out.Error("error: %v", a.cfgErr)
				}
				return ErrOperationFailed
			}

			target := a.cfg
			if a.rawCfg != nil {
				target = a.rawCfg
			}
			result := config.ValidateConfig(target)

			if a.jsonOutput() {
				if err := a.out.JSON(result); err != nil {
					return err
				}
			} else {
				for _, e := range result.Errors {
					a.out.Error("error: %s: %s", e.Field, e.Message)
				}
				for _, w := range result.Warnings {
					a.out.Warn("warning: %s: %s", w.Field, w.Message)
				}
				if result.Valid {
					a.out.Success("✅ %s is valid", a.cfgPath)
				}
			}

			if !result.Valid {
				return ErrOperationFailed
			}
			return nil
		},
	}
}

func newConfigResetCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOutput() && !yes {
				return fmt.Errorf("--json needs --yes for config reset")
			}
			if !yes {
				ok, err := a.out.Confirm("Reset all settings to their defaults?")
				if err != nil || !ok {
					if err == nil {
						a.out.Warn("Operation cancelled")
					}
					return err
				}
			}

			cfg, err := config.Reset(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.cfgBroken = false
			a.cfgErr = nil
			a.rawCfg = nil

			if a.jsonOutput() {
				return a.out.JSON(cfg)
			}
			a.out.Success("✅ Settings reset to defaults")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
