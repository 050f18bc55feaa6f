// Package cli implements the ragctl command line over the document service.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"docqa/internal/service"
)

// documentService is set by main before Execute.
var documentService service.DocumentService

// userID is the acting user for every command.
var userID string

var errServiceNotConfigured = errors.New("document service not configured")

var rootCmd = &cobra.Command{
	Use:   "ragctl",
	Short: "Manage and query the document library",
	Long: `ragctl ingests documents into the vector store, lists and deletes them,
and answers questions against them with the configured LLM.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "acting user ID")
}

// SetDocumentService sets the service used by every command.
func SetDocumentService(s service.DocumentService) {
	documentService = s
}

// SetDefaultUser sets the user assumed when --user is not given.
func SetDefaultUser(user string) {
	userID = user
	rootCmd.PersistentFlags().Lookup("user").DefValue = user
}

// ExecuteContext runs the root command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func requireService() (service.DocumentService, error) {
	if documentService == nil {
		return nil, errServiceNotConfigured
	}
	return documentService, nil
}
