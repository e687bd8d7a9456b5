package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	bankID     string
	bankSource string
)

// Execute runs the CLI.
func Execute() error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "traffic-quiz",
		Short:        "Traffic-safety quiz with achievements and progress stats",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&bankID, "bank", os.Getenv("QUIZ_BANK"), "question bank id (overrides config)")
	cmd.PersistentFlags().StringVar(&bankSource, "source", "", "bank source: static, file, postgres or sqlite (overrides config)")
	cmd.AddCommand(NewPlayCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewMigrateCmd())
	return cmd
}
