package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/getman/packages/executor"
	"github.com/abdul-hamid-achik/getman/packages/logging"
	"github.com/abdul-hamid-achik/getman/packages/session"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Edit and send requests from an interactive screen",
	Long: `Start an interactive screen holding a URL, a method, a header block
and a body. Edit them with line commands and type "send"; the response
replaces the previous one when it arrives. Type "help" for all commands.

Examples:
  getman interactive
  getman interactive --config team.yaml`,
	Args: cobra.NoArgs,
	RunE: interactiveCommand,
}

func init() {
	addCommonFlags(interactiveCmd)
}

func interactiveCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), verboseFlag)

	exec, err := newExecutor(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := session.New(exec, cmd.OutOrStdout(),
		session.WithForm(executor.Form{Method: cfg.Method, URL: cfg.URL}),
		session.WithLogger(logger),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "getman %s - type help for commands\n", version)

	if err := s.Run(ctx, cmd.InOrStdin()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
