package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"traffic-quiz/internal/app"
	"traffic-quiz/internal/domain"
	"traffic-quiz/internal/infra/file"
)

// NewValidateCmd checks that a bank can drive a run.
func NewValidateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a question bank and check it for configuration errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.close()

			var bank domain.Bank
			if path != "" {
				if bank, err = file.ReadBank(path); err != nil {
					return err
				}
				if _, err := app.NewEngine(bank, e.ruleOptions()...); err != nil {
					return err
				}
			} else {
				service, err := e.service(cmd.Context())
				if err != nil {
					return err
				}
				if bank, err = service.Validate(cmd.Context(), e.cfg.Bank.ID); err != nil {
					return err
				}
			}
			printBankSummary(cmd.OutOrStdout(), bank)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "validate a YAML bank file instead of the configured source")
	return cmd
}

func printBankSummary(w io.Writer, bank domain.Bank) {
	perLevel := make(map[int]int)
	for _, q := range bank.Questions {
		perLevel[q.Level]++
	}
	levels := make([]int, 0, len(perLevel))
	for level := range perLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	fmt.Fprintf(w, "bank %q (%s): OK\n", bank.ID, bank.Title)
	fmt.Fprintf(w, "  questions:    %d\n", len(bank.Questions))
	for _, level := range levels {
		fmt.Fprintf(w, "    level %d:    %d\n", level, perLevel[level])
	}
	fmt.Fprintf(w, "  achievements: %d\n", len(bank.Achievements))
}
