package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"traffic-quiz/internal/app"
	"traffic-quiz/internal/config"
	"traffic-quiz/internal/content"
	"traffic-quiz/internal/domain"
	"traffic-quiz/internal/infra/file"
	pgloader "traffic-quiz/internal/infra/postgres"
)

// NewSeedCmd copies a validated bank into a storage backend.
func NewSeedCmd() *cobra.Command {
	var (
		from string
		to   string
		out  string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store a built-in or YAML bank in Postgres, SQLite or a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			bank, err := seedSource(e, from)
			if err != nil {
				return err
			}
			if _, err := app.NewEngine(bank, e.ruleOptions()...); err != nil {
				return err
			}
			if err := seedBank(cmd.Context(), e, bank, to, out); err != nil {
				return err
			}
			e.logger.Info("bank seeded", zap.String("bank", bank.ID), zap.String("target", to))
			if err := e.invalidateCache(cmd.Context(), bank.ID); err != nil {
				// the bank is stored; a stale cache entry still expires with its TTL
				e.logger.Warn("invalidate cached bank", zap.String("bank", bank.ID), zap.Error(err))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "YAML bank file to seed (default: built-in bank selected by --bank)")
	cmd.Flags().StringVar(&to, "to", config.SourceSQLite, "target: postgres, sqlite or file")
	cmd.Flags().StringVar(&out, "out", "", "output path when --to=file")
	return cmd
}

func seedSource(e *env, from string) (domain.Bank, error) {
	if from != "" {
		bank, err := file.ReadBank(from)
		if err != nil {
			return domain.Bank{}, err
		}
		if bank.ID == "" {
			bank.ID = e.cfg.Bank.ID
		}
		return bank, nil
	}
	bank, ok := content.Banks()[e.cfg.Bank.ID]
	if !ok {
		return domain.Bank{}, fmt.Errorf("built-in bank %q: %w", e.cfg.Bank.ID, domain.ErrBankNotFound)
	}
	return bank, nil
}

func seedBank(ctx context.Context, e *env, bank domain.Bank, to, out string) error {
	switch to {
	case config.SourcePostgres:
		if err := runMigrationsWithConfig(ctx, e.cfg, e.logger); err != nil {
			return err
		}
		pool, err := e.openPostgres(ctx)
		if err != nil {
			return err
		}
		return pgloader.NewBankLoader(pool).SaveBank(ctx, bank)
	case config.SourceSQLite:
		store, err := e.openSQLite()
		if err != nil {
			return err
		}
		return store.SaveBank(ctx, bank)
	case config.SourceFile:
		if out == "" {
			out = bank.ID + ".yaml"
		}
		return file.WriteBank(out, bank)
	default:
		return fmt.Errorf("unknown seed target %q", to)
	}
}
