package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	Long: `Start an HTTP server exposing similarity search:

  POST /api/v1/search  multipart form with an "image" field; query
                       parameters limit, score_threshold, exact, hnsw_ef.`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	application := initApp(context.Background())

	if err := application.RunServer(); err != nil {
		os.Exit(1)
	}
}
