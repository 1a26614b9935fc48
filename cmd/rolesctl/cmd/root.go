package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/roles/internal/roles/app"
	"github.com/aussiebroadwan/roles/internal/roles/service"
	"github.com/aussiebroadwan/roles/pkg/slogx"
)

// Exit codes returned by rolesctl, one per error kind.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitInvalidArgument = 2
	ExitNotFound        = 3
	ExitAlreadyExists   = 4
	ExitConflict        = 5
	ExitUnavailable     = 6
)

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	logLevel    string
	logFormat   string
	application string

	app    *app.Application
	cancel context.CancelFunc
}

// Run builds a fresh command tree, executes it with args and releases the
// store afterwards, whether or not the command succeeded.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer c.shutdown()
	return root.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Run to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, service.ErrInvalidArgument):
		return ExitInvalidArgument
	case errors.Is(err, service.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, service.ErrAlreadyExists):
		return ExitAlreadyExists
	case errors.Is(err, service.ErrConflict):
		return ExitConflict
	case errors.Is(err, service.ErrUnavailable):
		return ExitUnavailable
	default:
		return ExitFailure
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "rolesctl",
		Short:             "Manage application roles and user memberships.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.PersistentFlags().StringVarP(&c.logLevel, "log-level", "l", "", "log level: debug, info, warn or error (overrides LOG_LEVEL)")
	root.PersistentFlags().StringVarP(&c.logFormat, "log-format", "f", "", "log format: json or text (overrides LOG_FORMAT)")
	root.PersistentFlags().StringVarP(&c.application, "app", "a", "", "application the command is scoped to (overrides ROLES_APPLICATION)")
	root.DisableAutoGenTag = true

	root.AddCommand(
		c.migrateCmd(),
		c.roleCmd(),
		c.userCmd(),
	)
	return root
}

// setup loads configuration, opens the store and attaches a logger and
// deadline to the command context.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.logFormat != "" {
		cfg.LogFormat = c.logFormat
	}
	if c.application != "" {
		cfg.Application = c.application
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.OpTimeout)
	c.cancel = cancel

	application, err := app.New(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.app = application

	ctx = slogx.WithContext(ctx, application.Logger())
	ctx, _ = slogx.WithOpID(ctx)
	slogx.FromContext(ctx).Debug("running command",
		"command", cmd.CommandPath(),
		"driver", cfg.Driver,
		"application", cfg.Application,
	)

	cmd.SetContext(ctx)
	return nil
}

func (c *cli) shutdown() {
	if c.app != nil {
		_ = c.app.Close()
	}
	if c.cancel != nil {
		c.cancel()
	}
}
