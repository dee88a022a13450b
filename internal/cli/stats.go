package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	a, err := newApp(cmd.Context(), cfg, GetLogger(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.retrieve.TotalChunks(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Index statistics:\n")
	fmt.Printf("  Backend:     %s\n", cfg.Index.Backend)
	fmt.Printf("  Location:    %s\n", cfg.Index.Dir)
	fmt.Printf("  Embedder:    %s (%d dimensions)\n", a.embedder.ModelName(), a.embedder.Dimension())
	fmt.Printf("  Chunk size:  %d (overlap %d)\n", cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	fmt.Printf("  Total chunks: %d\n", n)
	return nil
}
