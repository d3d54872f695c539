// Package cli implements the command-line interface of the image search service.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/DRSN-tech/image-search/internal/app"
	config "github.com/DRSN-tech/image-search/internal/cfg"
	"github.com/DRSN-tech/image-search/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "image-search",
	Short: "Content-addressed image indexing and similarity search",
	Long: `image-search ingests image folders into a content-addressed object store
and a vector index, then finds visually similar images by example.

Images are deduplicated by content hash, vectorized by an external
embedding service and indexed in Qdrant.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
}

// initApp loads config and wires the application; any failure is fatal.
func initApp(ctx context.Context) *app.App {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	return application
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
