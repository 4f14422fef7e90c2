package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/omicsdash/biodisc/internal/config"
	"github.com/omicsdash/biodisc/internal/database"
	"github.com/omicsdash/biodisc/internal/discovery"
	"github.com/omicsdash/biodisc/internal/search"
	"github.com/omicsdash/biodisc/internal/service"
)

var (
	discoverDataType   string
	discoverDisease    string
	discoverTissue     string
	discoverDaysBack   int
	discoverMaxSamples int
	discoverAllTypes   bool
	discoverConfigPath string
	discoverJSON       bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run one discovery pass against the archive",
	Long: `Discover queries the European Nucleotide Archive for the requested data
type and disease focus, classifies the returned metadata, and persists new
samples into the local store. When the archive is unreachable or returns
nothing usable, a small synthetic batch is stored instead so downstream
consumers always have data to work with.`,
	Example: `  # Cancer RNA-seq from the last 30 days
  biodisc discover --data-type rna_seq --disease cancer --days-back 30

  # Liver-specific metabolic genomics
  biodisc discover --data-type genomics --disease metabolic --tissue liver

  # Every data type for one disease
  biodisc discover --disease cardiovascular --all-types`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverDataType, "data-type", "t", "rna_seq", "Data type (rna_seq, genomics, proteomics, metabolomics, single_cell)")
	discoverCmd.Flags().StringVarP(&discoverDisease, "disease", "d", "", "Disease focus (required)")
	discoverCmd.Flags().StringVar(&discoverTissue, "tissue", "", "Tissue filter (optional)")
	discoverCmd.Flags().IntVar(&discoverDaysBack, "days-back", 30, "Lookback window in days")
	discoverCmd.Flags().IntVar(&discoverMaxSamples, "max-samples", 100, "Maximum samples per run")
	discoverCmd.Flags().BoolVar(&discoverAllTypes, "all-types", false, "Run every discoverable data type")
	discoverCmd.Flags().StringVarP(&discoverConfigPath, "config", "c", "", "Configuration file path")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Emit the run summary as JSON")
	discoverCmd.MarkFlagRequired("disease")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(discoverConfigPath)
	if err != nil {
		return err
	}

	db, err := database.Initialize(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var index *search.Index
	if cfg.Search.Enabled {
		index, err = search.Open(cfg.Search.IndexPath)
		if err != nil {
			return fmt.Errorf("failed to open search index: %w", err)
		}
		defer index.Close()
	}

	fetcher := discovery.NewFetcher(cfg.Discovery.ENABaseURL,
		time.Duration(cfg.Discovery.TimeoutSeconds)*time.Second)
	pipeline := discovery.NewPipeline(fetcher, db)
	pipeline.MockBatchSize = cfg.Discovery.MockBatchSize

	svc := service.NewDiscoveryService(db, pipeline, index)
	ctx := context.Background()

	if discoverAllTypes {
		result, err := svc.Comprehensive(ctx, discoverDisease, discoverTissue)
		if err != nil {
			return err
		}
		return printDiscoverResult(result)
	}

	result, err := svc.Trigger(ctx, &service.DiscoveryRequest{
		DataType:     discoverDataType,
		DiseaseFocus: discoverDisease,
		TissueType:   discoverTissue,
		DaysBack:     discoverDaysBack,
		MaxSamples:   discoverMaxSamples,
	})
	if err != nil {
		return err
	}
	return printDiscoverResult(result)
}

func printDiscoverResult(result interface{}) error {
	if discoverJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	switch r := result.(type) {
	case *discovery.Result:
		printRun(r)
	case *service.ComprehensiveResult:
		fmt.Printf("Comprehensive discovery for %s:\n", r.DiseaseFocus)
		for dataType, run := range r.Results {
			fmt.Printf("\n[%s]\n", dataType)
			printRun(run)
		}
		for dataType, msg := range r.Errors {
			fmt.Printf("\n[%s] failed: %s\n", dataType, msg)
		}
	}
	return nil
}

func printRun(r *discovery.Result) {
	fmt.Printf("  source:    %s\n", r.Source)
	fmt.Printf("  found:     %d\n", r.Found)
	fmt.Printf("  inserted:  %d\n", r.Inserted)
	fmt.Printf("  skipped:   %d\n", r.Skipped)
	if r.Dropped > 0 {
		fmt.Printf("  dropped:   %d\n", r.Dropped)
	}
	if r.ErrorMessage != "" {
		fmt.Printf("  degraded:  %s\n", r.ErrorMessage)
	}
}

// loadConfig loads the given config file, or the discovered default when the
// path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}
