package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shuvrobasu/repo-view-extract/internal/store"
)

// statsTop is how many distribution entries each section prints.
const statsTop = 15

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print summary statistics for a record dump",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	if flagInput == "" {
		return fmt.Errorf("--input is required")
	}

	st, err := loadStore(cmd.Context())
	if err != nil {
		return err
	}
	stats := st.Statistics()

	fmt.Printf("records:      %s\n", humanize.Comma(int64(stats.TotalRecords)))
	fmt.Printf("total size:   %s\n", humanize.Bytes(uint64(stats.TotalBytes)))
	fmt.Printf("average size: %s\n", humanize.Bytes(uint64(stats.AverageBytes)))

	fmt.Println("\nlicenses:")
	printCounts(stats.Licenses)
	fmt.Println("\nextensions:")
	printCounts(stats.Extensions)
	return nil
}

func printCounts(counts []store.CountedKey) {
	n := len(counts)
	if n > statsTop {
		n = statsTop
	}
	for _, c := range counts[:n] {
		fmt.Printf("  %-30s %8s\n", c.Key, humanize.Comma(int64(c.Count)))
	}
	if len(counts) > statsTop {
		fmt.Printf("  ... and %d more\n", len(counts)-statsTop)
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
