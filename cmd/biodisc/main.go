package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info
var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// Global flags
var (
	quiet   bool
	verbose bool
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "biodisc",
	Short: "Multi-omics data discovery platform",
	Long: `biodisc discovers public multi-omics datasets by querying the European
Nucleotide Archive, classifying study and sample metadata against a fixed
disease and tissue taxonomy, and persisting the results into a local SQLite
store with full-text search.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Example: `  # Discover cancer RNA-seq data from the last 30 days
  biodisc discover --data-type rna_seq --disease cancer --days-back 30

  # Discover every data type for one disease
  biodisc discover --disease metabolic --all-types

  # Start the API server with the scheduler enabled
  biodisc server --port 8080 --scheduled

  # Show database statistics
  biodisc db info`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
