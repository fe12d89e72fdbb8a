package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlexSherTemplar/StaticCodeViewer/internal/analyzer"
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/config"
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/search"
)

var searchLimit int

// searchCmd represents the search command.
var searchCmd = &cobra.Command{
	Use:   "search [dir] <query>",
	Short: "Search the structural graph by keyword",
	Long: `Search analyzes a source tree and runs a full-text query over the
extracted nodes: labels, file paths, kinds and the source text each
node spans.

Field scoping is supported, e.g.:
  scv search . 'kind:function parse'
  scv search ./src render
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", search.DefaultLimit, "maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	dirArgs := args[:len(args)-1]
	query := args[len(args)-1]

	root, err := resolveRoot(dirArgs)
	if err != nil {
		return err
	}
	cfg, err := config.NewLoader(root).Load()
	if err != nil {
		return err
	}

	files, result, err := loadQuiet(root, cfg, cfg.Analyze.Depth)
	if err != nil {
		return err
	}

	explorer, err := analyzer.NewExplorer(result, files)
	if err != nil {
		return err
	}
	defer explorer.Close()

	searcher, err := search.New(cmd.Context(), result, explorer)
	if err != nil {
		return err
	}
	defer searcher.Close()

	results, err := searcher.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%-10s %-30s %s (%.2f)\n", r.Kind, r.Label, r.FilePath, r.Score)
	}
	return nil
}
