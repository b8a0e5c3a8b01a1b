package cli

import (
	"github.com/spf13/cobra"
	"quiz-assessment-service/internal/app"
	"quiz-assessment-service/internal/config"
)

// NewSeedCmd creates the default accounts and sample questions.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create default accounts and sample questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			deps, err := buildDeps(ctx, cfg)
			if err != nil {
				return err
			}
			defer deps.Close()
			return app.Seed(ctx, deps.authService, deps.questions)
		},
	}
}
