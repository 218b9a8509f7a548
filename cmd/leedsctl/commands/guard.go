package commands

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"leedsbot-backend/internal/config"
	"leedsbot-backend/internal/guard"
	"leedsbot-backend/internal/llm"
	"leedsbot-backend/internal/logger"
)

// GuardCommand runs the academic-integrity guard on a message and prints
// the decision as JSON.
func GuardCommand(cfg *config.Config, log *logger.Logger) *cobra.Command {
	var rulesOnly bool

	cmd := &cobra.Command{
		Use:   "guard <text>",
		Short: "Check a message against the academic-integrity guard",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			var chain *guard.Chain
			if rulesOnly {
				chain = guard.NewChain(guard.RuleStage)
			} else {
				provider, closeProvider, err := llm.NewProvider(cmd.Context(), cfg.LLM(), log)
				if err != nil {
					return err
				}
				defer closeProvider()
				chain = guard.New(provider, nil, log)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(chain.Check(cmd.Context(), text))
		},
	}

	cmd.Flags().BoolVar(&rulesOnly, "rules-only", false, "Skip the model classifier stage")
	return cmd
}
