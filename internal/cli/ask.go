package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the stored documents",
	Long: `Retrieves the most relevant chunks visible to the acting user, reranks them
and streams an answer from the LLM followed by the sources it was given.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, err := requireService()
	if err != nil {
		return err
	}

	result, err := svc.Answer(cmd.Context(), args[0], userID, func(fragment string) error {
		cmd.Print(fragment)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println()
	if len(result.Sources) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println("Sources:")
	for _, s := range result.Sources {
		if s.HeaderPath != "" {
			cmd.Printf("  - %s > %s\n", s.Source, s.HeaderPath)
			continue
		}
		cmd.Printf("  - %s\n", s.Source)
	}
	return nil
}
