package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omicsdash/biodisc/internal/database"
)

var dbConfigPath string

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management commands",
}

var dbInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(dbConfigPath)
		if err != nil {
			return err
		}

		db, err := database.Initialize(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return err
		}

		fmt.Printf("Database: %s\n", cfg.Database.Path)
		fmt.Printf("  studies:            %d\n", stats.TotalStudies)
		fmt.Printf("  samples:            %d\n", stats.TotalSamples)
		fmt.Printf("  discovery log rows: %d\n", stats.TotalLogRows)

		discStats, err := db.GetDiscoveryStatistics()
		if err != nil {
			return err
		}
		if discStats.TotalRuns > 0 {
			fmt.Printf("\nDiscovery runs: %d (%d samples found)\n",
				discStats.TotalRuns, discStats.TotalSamplesFound)
			for source, count := range discStats.SamplesBySource {
				fmt.Printf("  samples from %s: %d\n", source, count)
			}
		}
		return nil
	},
}

var dbLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent discovery runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(dbConfigPath)
		if err != nil {
			return err
		}

		db, err := database.Initialize(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		entries, err := db.GetDiscoveryLog(20)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No discovery runs recorded.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %s/%s tissue=%s source=%s found=%d processed=%d status=%s\n",
				e.DiscoveryDate.Format("2006-01-02 15:04"),
				e.DataType, e.DiseaseFocus, e.TissueType, e.Source,
				e.SamplesFound, e.SamplesProcessed, e.Status)
		}
		return nil
	},
}

func init() {
	dbCmd.PersistentFlags().StringVarP(&dbConfigPath, "config", "c", "", "Configuration file path")
	dbCmd.AddCommand(dbInfoCmd)
	dbCmd.AddCommand(dbLogCmd)
}
