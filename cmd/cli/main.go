package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"diffexpr/adapters/plot"
	"diffexpr/adapters/tabular"
	"diffexpr/app"
	"diffexpr/domain/expr"
	"diffexpr/internal/analysis"
	"diffexpr/internal/config"
)

// countsReader opens a fresh reader per counts file.
type countsReader struct{}

func (countsReader) ReadCounts(path string) (*expr.Matrix, error) {
	return tabular.NewDataReader(path).ReadCounts(path)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "diffexpr",
		Short: "Differential gene expression pipeline",
	}

	rootCmd.AddCommand(
		newNormalizeCmd(),
		newDiffExpCmd(),
		newReportCmd(),
		newPlotsCmd(),
		newRunCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newNormalizeCmd() *cobra.Command {
	var counts, metadata, annotations, out string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize gene counts to log2(CPM + 1) aligned with sample metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := app.NewNormalizeService(countsReader{})
			_, _, err := svc.Run(app.NormalizeRequest{
				CountsPath:      counts,
				MetadataPath:    metadata,
				AnnotationsPath: annotations,
				OutPath:         out,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&counts, "counts", "", "CSV or Excel file with raw gene counts")
	cmd.Flags().StringVar(&metadata, "metadata", "", "CSV with sample_id and condition columns")
	cmd.Flags().StringVar(&annotations, "annotations", "", "Optional annotation table with gene ID and gene symbol")
	cmd.Flags().StringVar(&out, "out", "", "Output CSV path")
	_ = cmd.MarkFlagRequired("counts")
	_ = cmd.MarkFlagRequired("metadata")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newDiffExpCmd() *cobra.Command {
	var counts, metadata, out string
	var workers int

	cmd := &cobra.Command{
		Use:   "diffexp",
		Short: "Run the Welch t-test with BH correction over a normalized matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := app.NewDiffExpService(analysis.NewEngine(workers), nil)
			_, _, err := svc.Run(cmd.Context(), app.DiffExpRequest{
				NormalizedPath: counts,
				MetadataPath:   metadata,
				OutPath:        out,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&counts, "counts", "", "Normalized counts CSV")
	cmd.Flags().StringVar(&metadata, "metadata", "", "CSV with sample_id and condition columns")
	cmd.Flags().StringVar(&out, "out", "", "Output CSV path")
	cmd.Flags().IntVar(&workers, "workers", 0, "Per-gene test concurrency (0 = one per CPU)")
	_ = cmd.MarkFlagRequired("counts")
	_ = cmd.MarkFlagRequired("metadata")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newReportCmd() *cobra.Command {
	var differential, actionable, out, summary string
	var pAdjCutoff, log2FCCutoff float64

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Intersect differential results with an actionable gene list",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := app.NewActionableService()
			_, err := svc.Run(app.ActionableRequest{
				DifferentialPath: differential,
				ActionablePath:   actionable,
				OutPath:          out,
				SummaryPath:      summary,
				PAdjCutoff:       pAdjCutoff,
				Log2FCCutoff:     log2FCCutoff,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&differential, "differential", "", "CSV of differential expression results")
	cmd.Flags().StringVar(&actionable, "actionable", "", "CSV of actionable genes")
	cmd.Flags().StringVar(&out, "out", "", "Output actionable CSV path")
	cmd.Flags().StringVar(&summary, "summary", "", "Summary JSON path with key metrics for the run")
	cmd.Flags().Float64Var(&pAdjCutoff, "p-adj-cutoff", 0.05, "Adjusted p-value cutoff")
	cmd.Flags().Float64Var(&log2FCCutoff, "log2-fc-cutoff", 1.0, "Absolute log2FC cutoff")
	_ = cmd.MarkFlagRequired("differential")
	_ = cmd.MarkFlagRequired("actionable")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newPlotsCmd() *cobra.Command {
	var counts, metadata, differential, outDir string
	var topN int

	cmd := &cobra.Command{
		Use:   "plots",
		Short: "Render PCA, heatmap, volcano and MA charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, err := app.LoadNormalized(counts)
			if err != nil {
				return err
			}
			sheet, err := tabular.ReadSampleSheet(metadata)
			if err != nil {
				return err
			}
			table, err := tabular.ReadResults(differential)
			if err != nil {
				return err
			}

			if err := plot.PCA(normalized, sheet, filepath.Join(outDir, "pca.html")); err != nil {
				return err
			}
			if err := plot.Heatmap(normalized, sheet, topN, filepath.Join(outDir, "heatmap.html")); err != nil {
				return err
			}
			if err := plot.Volcano(table, 0.05, 1.0, filepath.Join(outDir, "volcano.html")); err != nil {
				return err
			}
			return plot.MA(table, 0.05, filepath.Join(outDir, "ma.html"))
		},
	}

	cmd.Flags().StringVar(&counts, "counts", "", "Normalized counts CSV")
	cmd.Flags().StringVar(&metadata, "metadata", "", "CSV with sample_id and condition columns")
	cmd.Flags().StringVar(&differential, "differential", "", "CSV of differential expression results")
	cmd.Flags().StringVar(&outDir, "out-dir", "plots", "Directory for rendered charts")
	cmd.Flags().IntVar(&topN, "top-n", 30, "Number of top variable genes in the heatmap")
	_ = cmd.MarkFlagRequired("counts")
	_ = cmd.MarkFlagRequired("metadata")
	_ = cmd.MarkFlagRequired("differential")

	return cmd
}

func newRunCmd() *cobra.Command {
	var counts, metadata, annotations, actionable, outDir string
	var workers int
	var skipPlots bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: normalize, test, report, plots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			pipeline := app.NewPipelineService(
				app.NewNormalizeService(countsReader{}),
				app.NewDiffExpService(analysis.NewEngine(workers), nil),
				app.NewActionableService(),
				cfg.Report,
			)
			result, err := pipeline.Run(cmd.Context(), app.PipelineRequest{
				CountsPath:      counts,
				MetadataPath:    metadata,
				AnnotationsPath: annotations,
				ActionablePath:  actionable,
				OutDir:          outDir,
				SkipPlots:       skipPlots,
			})
			if err != nil {
				return err
			}
			fmt.Printf("run %s: %d genes tested (%s vs %s), outputs in %s\n",
				result.Run.ID, result.Run.GenesTested, result.Run.ConditionA, result.Run.ConditionB, result.OutputsDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&counts, "counts", "", "CSV or Excel file with raw gene counts")
	cmd.Flags().StringVar(&metadata, "metadata", "", "CSV with sample_id and condition columns")
	cmd.Flags().StringVar(&annotations, "annotations", "", "Optional annotation table")
	cmd.Flags().StringVar(&actionable, "actionable", "", "Optional actionable gene list")
	cmd.Flags().StringVar(&outDir, "out-dir", "out", "Directory for pipeline artifacts")
	cmd.Flags().IntVar(&workers, "workers", 0, "Per-gene test concurrency (0 = one per CPU)")
	cmd.Flags().BoolVar(&skipPlots, "skip-plots", false, "Skip chart rendering")
	_ = cmd.MarkFlagRequired("counts")
	_ = cmd.MarkFlagRequired("metadata")

	return cmd
}
