package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/DRSN-tech/image-search/internal/app"
	"github.com/DRSN-tech/image-search/internal/usecase"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <folder>",
	Short: "Index a folder of images",
	Long: `Recursively walk a folder, deduplicate images by content hash,
vectorize new ones and store them in the object store and the vector index.

Already indexed images are skipped, so re-running on the same folder is cheap.

Examples:
  image-search ingest ./photos`,
	Args: cobra.ExactArgs(1),
	Run:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := initApp(ctx)
	defer closeApp(application)

	res, err := application.IngestUC().Ingest(ctx, usecase.NewIngestReq(args[0]))
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("discovered %d, indexed %d, skipped %d, failed %d\n",
		res.Discovered, res.Indexed, res.Skipped, res.Failed)
}

func closeApp(application *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = application.Close(ctx)
}
