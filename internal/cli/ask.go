package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"neurabase/internal/domain"
)

var (
	askQuestion string
	askTopK     int
	askJSON     bool
	askSources  bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question from the indexed documents",
	Long: `Retrieve the chunks most similar to the question and ask the configured
language model to answer from them.

Examples:
  neurabase ask -q "What is the capital of France?"
  neurabase ask -q "summarise the Q3 report" -k 5 --sources
  neurabase ask -q "who signed the contract" --json`,
	Args: cobra.NoArgs,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askQuestion, "query", "q", "", "question to answer (required)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "chunks to retrieve (default from retrieve.top_k)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the response as JSON")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print the retrieved sources")
	askCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(askCmd)
}

type askOutput struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	NumSources int      `json:"num_sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	question := strings.TrimSpace(askQuestion)
	if question == "" {
		return fmt.Errorf("query cannot be empty")
	}

	topK := cfg.Retrieve.TopK
	if askTopK > 0 {
		topK = askTopK
	}

	a, err := newApp(cmd.Context(), cfg, GetLogger(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.query.Query(cmd.Context(), domain.Query{Question: question, TopK: topK})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if askJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(askOutput{
			Question:   question,
			Answer:     res.Answer,
			Sources:    res.Sources,
			NumSources: res.NumSources,
		})
	}

	fmt.Println(res.Answer)
	if askSources && len(res.Sources) > 0 {
		fmt.Printf("\nSources (%d of %d):\n", len(res.Sources), res.NumSources)
		for i, src := range res.Sources {
			fmt.Printf("\n[%d] %s\n", i+1, src)
		}
	}
	return nil
}
