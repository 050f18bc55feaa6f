package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [source]",
	Short: "Delete a document and all its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show ingestion statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Show the stored conversation memory of the acting user",
	Args:  cobra.NoArgs,
	RunE:  runMemory,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output documents as JSON")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(memoryCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	svc, err := requireService()
	if err != nil {
		return err
	}

	docs, err := svc.ListDocuments(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	if listJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	sources := make([]string, 0, len(docs))
	for source := range docs {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		info := docs[source]
		cmd.Printf("  %s (scope: %s, chunks: %d)\n", source, info.UserID, info.Count)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	svc, err := requireService()
	if err != nil {
		return err
	}

	ok, err := svc.DeleteDocument(cmd.Context(), userID, args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("delete failed: vector store did not remove %s", args[0])
	}

	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	svc, err := requireService()
	if err != nil {
		return err
	}

	stats, err := svc.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runMemory(cmd *cobra.Command, _ []string) error {
	svc, err := requireService()
	if err != nil {
		return err
	}

	records, err := svc.Memory(cmd.Context(), userID)
	if err != nil {
		return fmt.Errorf("memory failed: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No memory stored.")
		return nil
	}
	for _, r := range records {
		cmd.Printf("[%s] %s\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Text)
	}
	return nil
}
