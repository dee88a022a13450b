package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchText string
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search indexed chunks without generating an answer",
	Long: `Show the chunks closest to a query with their similarity scores. Useful for
checking retrieval quality; needs no LLM credentials.

Examples:
  neurabase search -q "refund policy"
  neurabase search -q "quarterly revenue" --top-k 10 --json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchText, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

// searchResult is a simplified match for CLI output.
type searchResult struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Chunk  int     `json:"chunk_id"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	a, err := newApp(cmd.Context(), cfg, GetLogger(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	topK := cfg.Retrieve.TopK
	if searchTopK > 0 {
		topK = searchTopK
	}

	matches, err := a.retrieve.Search(cmd.Context(), searchText, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	results := make([]searchResult, len(matches))
	for i, m := range matches {
		results[i] = searchResult{
			ID:     m.ID,
			Source: m.Metadata.Source,
			Chunk:  m.Metadata.ChunkID,
			Score:  m.Score,
			Text:   m.Text,
		}
	}

	if searchJSON {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(results), searchText)
	totalScore := 0.0
	for i, r := range results {
		totalScore += r.Score
		fmt.Printf("--- [%d] %s #%d [%s %.3f] ---\n", i+1, r.Source, r.Chunk, rating(r.Score), r.Score)
		// Truncate long text for display
		text := []rune(strings.TrimSpace(r.Text))
		if len(text) > 500 {
			text = append(text[:500], []rune("...")...)
		}
		fmt.Println(string(text))
		fmt.Println()
	}

	fmt.Printf("Average similarity: %.3f (top-1 %.3f)\n", totalScore/float64(len(results)), results[0].Score)
	return nil
}

// rating buckets a cosine similarity for display.
func rating(score float64) string {
	switch {
	case score > 0.7:
		return "HIGH"
	case score > 0.5:
		return "GOOD"
	case score > 0.3:
		return "OK"
	default:
		return "LOW"
	}
}
