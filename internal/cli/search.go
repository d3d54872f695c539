package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/DRSN-tech/image-search/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	searchLimit          uint64
	searchScoreThreshold float32
	searchExact          bool
	searchHnswEf         uint64
	searchOutput         string
	searchUseHTTP        bool
)

var searchCmd = &cobra.Command{
	Use:   "search <image-or-folder>",
	Short: "Find indexed images similar to the given examples",
	Long: `Search the vector index for images similar to one example image or
a folder of example groups (one subfolder per tag), and download matches.

Examples:
  image-search search ./query.jpg
  image-search search ./probes --limit 50 --score-threshold 0.7
  image-search search ./probes --output ./found --use-http`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().Uint64Var(&searchLimit, "limit", 100, "Maximum results per group")
	searchCmd.Flags().Float32Var(&searchScoreThreshold, "score-threshold", 0.5, "Minimum similarity score [0..1]")
	searchCmd.Flags().BoolVar(&searchExact, "exact", false, "Exact (non-approximate) search")
	searchCmd.Flags().Uint64Var(&searchHnswEf, "hnsw-ef", 32, "HNSW ef parameter for approximate search")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Directory to download matches into (default <input>_found)")
	searchCmd.Flags().BoolVar(&searchUseHTTP, "use-http", false, "Download matches over their public URL instead of the object store")
}

func runSearch(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := initApp(ctx)
	defer closeApp(application)

	params := usecase.SearchParams{
		Limit:          searchLimit,
		ScoreThreshold: searchScoreThreshold,
		Exact:          searchExact,
		HnswEf:         searchHnswEf,
	}

	res, err := application.SearchUC().Search(ctx, usecase.NewSearchReq(args[0], searchOutput, params, searchUseHTTP))
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("groups %d, found %d, downloaded %d, failed %d\n", res.Groups, res.Found, res.Downloaded, res.Failed)
}
