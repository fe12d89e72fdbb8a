package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verbose bool

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "scv",
	Short: "StaticCodeViewer - structural code graphs without a compiler",
	Long: `StaticCodeViewer ingests a source tree and builds a structural graph
of its files, classes and functions using line-oriented heuristics,
then serves it for interactive visualization and search.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
