package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tidy/internal/audit"
	"tidy/internal/categories"
	"tidy/internal/config"
	"tidy/internal/filelock"
	"tidy/internal/logging"
	"tidy/internal/organizer"
	"tidy/internal/output"
)

// app is the state shared by one invocation's commands. It is filled in by
// setup before any command runs.
type app struct {
	v       *viper.Viper
	cfgPath string
	cfg     *config.Configuration
	// cfgBroken is set when the config file could not be parsed or failed
	// validation; cfg then holds the defaults and is never written back.
	cfgBroken bool
	cfgErr    error
	// rawCfg is the parsed file when it failed validation.
	rawCfg *config.Configuration
	out       *output.Output
	logger    *zap.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	cfgPath := a.v.GetString("config")
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}
	a.cfgPath = cfgPath

	cfg, err := config.LoadOrCreate(cfgPath)
	if err != nil {
		switch {
		case config.IsConfigError(err, config.InvalidJSON):
		case config.IsConfigError(err, config.ValidationError):
			// kept so `config validate` can report every problem
			a.rawCfg, _ = config.Read(cfgPath)
		default:
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; using default settings\n", err)
		cfg = config.Default()
		a.cfgBroken = true
		a.cfgErr = err
	}
	a.cfg = cfg

	level := a.v.GetString("log-level")
	if level == "" {
		level = cfg.LogLevel
	}
	logger, err := logging.New(logging.Config{Level: level, Format: a.v.GetString("log-format")})
	if err != nil {
		return err
	}
	a.logger = logger

	a.out = output.New(output.Config{
		Verbose:   a.v.GetBool("verbose"),
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Reader:    cmd.InOrStdin(),
		IsTTY:     output.IsTerminal(cmd.OutOrStdout()),
		Theme:     cfg.Theme,
	})

	a.logger.Debug("Configuration loaded", zap.String("path", cfgPath))
	return nil
}

func (a *app) jsonOutput() bool {
	return a.v.GetBool("json")
}

// folder returns the directory to bind to: --path, then the remembered
// folder when --last is given, then the working directory.
func (a *app) folder() (string, error) {
	if p := a.v.GetString("path"); p != "" {
		return p, nil
	}
	if a.v.GetBool("last") {
		if a.cfg.LastFolder == "" {
			return "", errors.New("no folder has been remembered yet")
		}
		return a.cfg.LastFolder, nil
	}
	return ".", nil
}

// categoryMap resolves the mapping to organize with; --categories replaces
// the configured categories file for this invocation only.
func (a *app) categoryMap() (*categories.Map, error) {
	cfg := *a.cfg
	if f := a.v.GetString("categories"); f != "" {
		cfg.CategoriesFile = f
	}
	return cfg.Categories()
}

// openOrganizer binds an organizer to the selected folder.
func (a *app) openOrganizer(opts ...organizer.Option) (*organizer.Organizer, error) {
	path, err := a.folder()
	if err != nil {
		return nil, err
	}
	cats, err := a.categoryMap()
	if err != nil {
		return nil, err
	}

	opts = append([]organizer.Option{organizer.WithLogger(a.logger)}, opts...)
	if !a.v.GetBool("no-exclude") {
		opts = append(opts, organizer.WithExclude(a.cfg.Excluder().ShouldExclude))
	}

	o, err := organizer.New(path, cats, opts...)
	if err != nil {
		return nil, err
	}
	a.out.Verbose("Folder: %s", o.Path())
	a.rememberFolder(o.Path())
	return o, nil
}

// openForChange is openOrganizer for commands that move or delete files.
// Committed changes are journaled when undo is enabled; a journal that cannot
// be opened only costs the ability to undo.
func (a *app) openForChange() (*organizer.Organizer, *audit.Writer, error) {
	var (
		journal *audit.Writer
		opts    []organizer.Option
	)
	if a.cfg.EnableUndo {
		w, err := audit.NewWriter(a.cfg.JournalDir(a.cfgPath))
		if err != nil {
			a.logger.Warn("Undo history unavailable", zap.Error(err))
			a.out.Warn("Undo history unavailable: %v", err)
		} else {
			journal = w
			opts = append(opts, organizer.WithRecorder(w))
		}
	}

	o, err := a.openOrganizer(opts...)
	if err != nil {
		return nil, nil, err
	}
	return o, journal, nil
}

func (a *app) rememberFolder(path string) {
	if !a.cfg.RememberLastFolder || a.cfgBroken || a.cfg.LastFolder == path {
		return
	}
	a.cfg.LastFolder = path
	if err := config.Save(a.cfg, a.cfgPath); err != nil {
		a.logger.Warn("Failed to remember folder", zap.String("path", path), zap.Error(err))
	}
}

// lockFolder takes the per-directory lock that keeps two tidy processes from
// changing the same folder at once.
func (a *app) lockFolder(dir string) (*filelock.Lock, error) {
	lock, err := filelock.ForDirectory(config.LockDir(a.cfgPath), dir)
	if err != nil {
		return nil, err
	}
	if err := lock.TryLock(); err != nil {
		if errors.Is(err, filelock.ErrBusy) {
			return nil, fmt.Errorf("another tidy process is changing %s", dir)
		}
		return nil, err
	}
	return lock, nil
}

// commit runs a committing engine call under the folder lock, wrapped in a
// journal run when journal is not nil.
func (a *app) commit(o *organizer.Organizer, journal *audit.Writer, runType audit.RunType, run func() organizer.OperationResult) (organizer.OperationResult, error) {
	lock, err := a.lockFolder(o.Path())
	if err != nil {
		return organizer.OperationResult{}, err
	}
	defer lock.Unlock()

	if journal != nil {
		if _, err := journal.StartRun(runType, o.Path()); err != nil {
			a.logger.Warn("Failed to start journal run", zap.Error(err))
			journal = nil
		}
	}

	result := run()

	if journal != nil {
		status := audit.RunStatusCompleted
		if !result.Success {
			status = audit.RunStatusFailed
		}
		if _, err := journal.EndRun(status); err != nil {
			a.logger.Warn("Failed to end journal run", zap.Error(err))
		}
		a.prune(journal)
	}
	return result, nil
}

func (a *app) prune(journal *audit.Writer) {
	pruned, err := journal.Prune(a.cfg.MaxUndoHistory)
	if err != nil {
		a.logger.Warn("Failed to prune undo history", zap.Error(err))
		return
	}
	if len(pruned.PrunedRuns) > 0 {
		a.out.Verbose("Dropped %d old run(s) from undo history", len(pruned.PrunedRuns))
	}
}

// confirm asks question unless the user already agreed with -y or the
// autoConfirm setting.
func (a *app) confirm(question string, yes bool) (bool, error) {
	if yes || a.cfg.AutoConfirm {
		return true, nil
	}
	ok, err := a.out.Confirm(question)
	if err != nil {
		return false, err
	}
	if !ok {
		a.out.Warn("Operation cancelled")
	}
	return ok, nil
}

// checkJSONChange rejects changing commands that would need a prompt while
// stdout carries JSON.
func (a *app) checkJSONChange(dryRun, yes bool) error {
	if a.jsonOutput() && !dryRun && !yes && !a.cfg.AutoConfirm {
		return errors.New("--json needs --yes or --dry-run for commands that change files")
	}
	return nil
}

func (a *app) report(result organizer.OperationResult, failureHeading string) error {
	a.out.Result(result, failureHeading)
	if !result.Success {
		return ErrOperationFailed
	}
	return nil
}

func (a *app) reportJSON(result organizer.OperationResult) error {
	if err := a.out.JSON(result); err != nil {
		return err
	}
	if !result.Success {
		return ErrOperationFailed
	}
	return nil
}
