package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"docqa/internal/service"
)

var (
	ingestGlobal bool
	ingestName   string
	dirGlobal    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a single document",
	Long: `Converts a PDF, DOCX, Markdown or text file, splits it into chunks and stores
them. Re-ingesting a document replaces its previous chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var ingestDirCmd = &cobra.Command{
	Use:   "ingest-dir [dir]",
	Short: "Ingest every supported document under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestDir,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestGlobal, "global", "g", false, "make the document visible to every user")
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "document name (default: file base name)")
	ingestDirCmd.Flags().BoolVarP(&dirGlobal, "global", "g", false, "make the documents visible to every user")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(ingestDirCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	svc, err := requireService()
	if err != nil {
		return err
	}

	req := service.IngestRequest{Path: args[0], Filename: ingestName, Global: ingestGlobal}
	chunks, err := svc.Ingest(cmd.Context(), userID, req)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s: %d chunks\n", args[0], chunks)
	return nil
}

func runIngestDir(cmd *cobra.Command, args []string) error {
	svc, err := requireService()
	if err != nil {
		return err
	}

	result, err := svc.IngestDir(cmd.Context(), userID, args[0], dirGlobal)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Files: %d\n", result.Files)
	cmd.Printf("Chunks: %d\n", result.Chunks)
	if len(result.Failed) == 0 {
		return nil
	}

	paths := make([]string, 0, len(result.Failed))
	for path := range result.Failed {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	cmd.Printf("Failed: %d\n", len(paths))
	for _, path := range paths {
		cmd.Printf("  %s: %v\n", path, result.Failed[path])
	}
	return nil
}
