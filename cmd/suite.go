package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/superpsx/vramdiff/internal/diff"
	"github.com/superpsx/vramdiff/internal/report"
	"github.com/superpsx/vramdiff/internal/vram"
)

var (
	suitePrecision int
	suiteTolerance int
	suiteCropVis   bool
	suiteShape     bool
	suiteOutDir    string
	suiteMinMatch  float64
)

var suiteCmd = &cobra.Command{
	Use:   "suite <dir>",
	Short: "Compare every test case under a suite directory",
	Long: `Runs a whole regression suite. Each subdirectory of <dir> is one case
and must contain dump.bin and ref.png. Prints a summary table and exits
nonzero when any case falls below --min-match.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuite,
}

func init() {
	suiteCmd.Flags().IntVar(&suitePrecision, "precision", vram.DefaultPrecisionBits, "Bits per channel both images are quantized to")
	suiteCmd.Flags().IntVar(&suiteTolerance, "tolerance", 0, "Per-channel tolerance in quantized units")
	suiteCmd.Flags().BoolVar(&suiteCropVis, "crop-visible", false, "Compare only the 320x224 visible display area")
	suiteCmd.Flags().BoolVar(&suiteShape, "shape", false, "Run the advisory shape heuristic on every case")
	suiteCmd.Flags().StringVar(&suiteOutDir, "out", "", "Directory to write per-case diagnostic images into")
	suiteCmd.Flags().Float64Var(&suiteMinMatch, "min-match", 100, "Minimum per-case match percentage to exit successfully")

	rootCmd.AddCommand(suiteCmd)
}

type suiteCase struct {
	Name   string
	Result *diff.Result
	Err    error
}

func runSuite(cmd *cobra.Command, args []string) error {
	suiteDir := args[0]

	entries, err := os.ReadDir(suiteDir)
	if err != nil {
		return fmt.Errorf("failed to read suite directory: %w", err)
	}

	if suiteTolerance < 0 || suiteTolerance > 255 {
		return fmt.Errorf("tolerance out of range: %d", suiteTolerance)
	}

	cfg := diff.Config{
		PrecisionBits: suitePrecision,
		Tolerance:     uint8(suiteTolerance),
		EstimateShape: suiteShape,
	}
	if suiteCropVis {
		crop := image.Rect(0, 0, vram.DisplayWidth, vram.DisplayHeight)
		cfg.Crop = &crop
	}

	var cases []suiteCase
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		dumpPath := filepath.Join(suiteDir, name, "dump.bin")
		refPath := filepath.Join(suiteDir, name, "ref.png")
		if _, err := os.Stat(dumpPath); err != nil {
			slog.Debug("Skipping directory without dump.bin", "case", name)
			continue
		}

		res, err := diff.Compare(dumpPath, refPath, cfg)
		cases = append(cases, suiteCase{Name: name, Result: res, Err: err})

		if err == nil && suiteOutDir != "" {
			if err := writeArtifacts(filepath.Join(suiteOutDir, name), res, report.DefaultAmplification); err != nil {
				return err
			}
		}
	}

	if len(cases) == 0 {
		return fmt.Errorf("no test cases found under %s", suiteDir)
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })

	failed := printSuiteTable(cases)

	fmt.Printf("\n%d/%d cases passed (threshold %.2f%%)\n", len(cases)-failed, len(cases), suiteMinMatch)
	if failed > 0 {
		return fmt.Errorf("%d case(s) failed", failed)
	}
	return nil
}

// printSuiteTable prints one row per case and returns the number of
// failing cases.
func printSuiteTable(cases []suiteCase) int {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CASE\tMATCH\tDIFF\tMISS\tEXTRA\tCOLOR\tSHAPE")

	failed := 0
	for _, c := range cases {
		if c.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\tERROR\t-\t-\t-\t-\t%v\n", c.Name, c.Err)
			continue
		}

		o := c.Result.Overall
		if o.MatchPercent < suiteMinMatch {
			failed++
		}
		shape := "-"
		if c.Result.Shape != nil {
			shape = c.Result.Shape.Shape.String()
		}
		fmt.Fprintf(w, "%s\t%.2f%%\t%d\t%d\t%d\t%d\t%s\n",
			c.Name, o.MatchPercent, o.DiffCount(), o.Missing, o.Extra, o.ColorDivergent, shape)
	}
	w.Flush()
	return failed
}
