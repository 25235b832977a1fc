package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shuvrobasu/repo-view-extract/internal/export"
	"github.com/shuvrobasu/repo-view-extract/internal/ingest"
	"github.com/shuvrobasu/repo-view-extract/internal/metrics"
	"github.com/shuvrobasu/repo-view-extract/internal/query"
	"github.com/shuvrobasu/repo-view-extract/internal/store"
	"github.com/shuvrobasu/repo-view-extract/pkg/types"
)

var (
	flagLabels     []string
	flagMinSize    int64
	flagMaxSize    int64
	flagMinQuality int
)

var exportCmd = &cobra.Command{
	Use:   "export <dest-dir>",
	Short: "Export record contents as files, optionally filtered",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if flagInput == "" {
		return fmt.Errorf("--input is required")
	}
	ctx := cmd.Context()

	st, err := loadStore(ctx)
	if err != nil {
		return err
	}
	if st.Len() == 0 {
		return types.ErrNoRecords
	}
	cache := metrics.New(st)

	spec := types.FilterSpec{
		Labels:        flagLabels,
		MinQualityPct: flagMinQuality,
	}
	if flagMinSize > 0 || flagMaxSize > 0 {
		spec.SizeEnabled = true
		spec.MinSize = flagMinSize
		spec.MaxSize = flagMaxSize
	}

	indices := allIndices(st.Len())
	if !spec.IsZero() {
		res, err := query.New(st, cache).Evaluate(ctx, spec)
		if err != nil {
			return err
		}
		indices = res.Matches
		fmt.Printf("filter matched %d of %d records\n", len(indices), res.Total)
	}

	res, err := export.New(st).Export(ctx, args[0], indices, nil)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d files to %s (%d skipped, %d failed)\n",
		res.Exported, args[0], res.Skipped, res.Failed)
	return nil
}

func loadStore(ctx context.Context) (*store.Store, error) {
	var records []types.Record
	var err error
	if flagFromDir {
		records, err = ingest.ScanDir(ctx, flagInput, nil)
	} else {
		records, err = ingest.LoadFile(ctx, flagInput, nil)
	}
	if err != nil {
		return nil, err
	}
	st := store.New()
	st.Replace(records)
	return st, nil
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func init() {
	exportCmd.Flags().StringSliceVar(&flagLabels, "label", nil, "only export records with one of these detected type labels")
	exportCmd.Flags().Int64Var(&flagMinSize, "min-size", 0, "minimum record size in bytes")
	exportCmd.Flags().Int64Var(&flagMaxSize, "max-size", 0, "maximum record size in bytes (0 = unbounded)")
	exportCmd.Flags().IntVar(&flagMinQuality, "min-quality", 0, "minimum quality percentage")
	rootCmd.AddCommand(exportCmd)
}
