package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"traffic-quiz/internal/transport/terminal"
)

// NewPlayCmd builds the CLI subcommand that runs a quiz in the terminal.
func NewPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a quiz run in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runPlay(ctx, cmd)
		},
	}
}

func runPlay(ctx context.Context, cmd *cobra.Command) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	service, err := e.service(ctx)
	if err != nil {
		return err
	}
	engine, err := service.NewRun(ctx, e.cfg.Bank.ID)
	if err != nil {
		return err
	}

	e.logger.Info("quiz started", zap.String("bank", e.cfg.Bank.ID), zap.Int("questions", engine.Total()))
	session := terminal.NewSession(engine, cmd.InOrStdin(), cmd.OutOrStdout(), e.logger)
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	e.logger.Info("quiz finished",
		zap.String("bank", e.cfg.Bank.ID),
		zap.Int("score", engine.State().Score),
		zap.Bool("complete", engine.IsComplete()),
	)
	return nil
}
