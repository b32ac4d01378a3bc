package main

import (
	"encoding/binary"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/superpsx/vramdiff/internal/diff"
	"github.com/superpsx/vramdiff/internal/report"
	"github.com/superpsx/vramdiff/internal/store"
	"github.com/superpsx/vramdiff/internal/vram"
)

var (
	compareDump       string
	compareRef        string
	compareFormat     string
	compareByteOrder  string
	compareChanOrder  string
	compareWidth      int
	compareHeight     int
	comparePrecision  int
	compareTolerance  int
	compareCropVis    bool
	compareGrid       string
	compareGridMargin int
	compareShape      bool
	compareShapeStep  int
	compareOutDir     string
	compareAmplify    float32
	compareMinMatch   float64
	compareSave       bool
	compareDataDir    string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a VRAM dump against a reference image",
	Long: `Decodes a raw VRAM dump, quantizes both it and the reference image to
the configured color precision and classifies every divergent pixel.
Prints the text report and optionally writes diagnostic images.

The exit code is nonzero when the overall match percentage falls below
--min-match.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareDump, "dump", "", "VRAM dump path (required)")
	compareCmd.Flags().StringVar(&compareRef, "ref", "", "Reference image path (required)")
	compareCmd.Flags().StringVar(&compareFormat, "format", "auto", "Dump pixel format: auto, 16bpp, 32bpp")
	compareCmd.Flags().StringVar(&compareByteOrder, "byte-order", "le", "16bpp word byte order: le, be")
	compareCmd.Flags().StringVar(&compareChanOrder, "channel-order", "rgb", "Channel order inside a pixel word: rgb, bgr")
	compareCmd.Flags().IntVar(&compareWidth, "width", vram.CanvasWidth, "Canvas width in pixels")
	compareCmd.Flags().IntVar(&compareHeight, "height", vram.CanvasHeight, "Canvas height in pixels")
	compareCmd.Flags().IntVar(&comparePrecision, "precision", vram.DefaultPrecisionBits, "Bits per channel both images are quantized to")
	compareCmd.Flags().IntVar(&compareTolerance, "tolerance", 0, "Per-channel tolerance in quantized units")
	compareCmd.Flags().BoolVar(&compareCropVis, "crop-visible", false, "Compare only the 320x224 visible display area")
	compareCmd.Flags().StringVar(&compareGrid, "grid", "", "Break the summary down into a COLSxROWS cell grid")
	compareCmd.Flags().IntVar(&compareGridMargin, "grid-margin", 0, "Pixels to shave off each grid cell edge")
	compareCmd.Flags().BoolVar(&compareShape, "shape", false, "Run the advisory shape heuristic on the decoded dump")
	compareCmd.Flags().IntVar(&compareShapeStep, "shape-step", 10, "Sampling step for the shape heuristic")
	compareCmd.Flags().StringVar(&compareOutDir, "out", "", "Directory to write decoded/diff/amplified images into")
	compareCmd.Flags().Float32Var(&compareAmplify, "amplify", report.DefaultAmplification, "Amplification factor for the difference image")
	compareCmd.Flags().Float64Var(&compareMinMatch, "min-match", 100, "Minimum overall match percentage to exit successfully")
	compareCmd.Flags().BoolVar(&compareSave, "save", false, "Persist the result into the store")
	compareCmd.Flags().StringVar(&compareDataDir, "data-dir", "./data", "Base directory for result storage (with --save)")

	compareCmd.MarkFlagRequired("dump")
	compareCmd.MarkFlagRequired("ref")
	rootCmd.AddCommand(compareCmd)
}

func parseByteOrder(s string) (binary.ByteOrder, error) {
	switch s {
	case "", "le":
		return binary.LittleEndian, nil
	case "be":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("unknown byte order %q", s)
}

func parseChannelOrder(s string) (vram.ChannelOrder, error) {
	switch s {
	case "", "rgb":
		return vram.OrderRGB, nil
	case "bgr":
		return vram.OrderBGR, nil
	}
	return vram.OrderRGB, fmt.Errorf("unknown channel order %q", s)
}

// parseGrid expands "COLSxROWS" into named cell regions covering w x h.
func parseGrid(spec string, w, h, margin int) ([]diff.Rect, error) {
	var cols, rows int
	if _, err := fmt.Sscanf(spec, "%dx%d", &cols, &rows); err != nil {
		return nil, fmt.Errorf("grid must be COLSxROWS, got %q", spec)
	}
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("grid needs at least one cell, got %q", spec)
	}
	return diff.Grid("", image.Point{}, w/cols, h/rows, cols, rows, margin)
}

func compareFlagsConfig() (diff.Config, error) {
	format, err := vram.ParseFormat(compareFormat)
	if err != nil {
		return diff.Config{}, err
	}
	byteOrder, err := parseByteOrder(compareByteOrder)
	if err != nil {
		return diff.Config{}, err
	}
	chanOrder, err := parseChannelOrder(compareChanOrder)
	if err != nil {
		return diff.Config{}, err
	}
	if compareTolerance < 0 || compareTolerance > 255 {
		return diff.Config{}, fmt.Errorf("tolerance out of range: %d", compareTolerance)
	}

	cfg := diff.Config{
		Width:         compareWidth,
		Height:        compareHeight,
		PrecisionBits: comparePrecision,
		Tolerance:     uint8(compareTolerance),
		EstimateShape: compareShape,
		SampleStep:    compareShapeStep,
	}
	cfg.Decode.Format = format
	cfg.Decode.ByteOrder = byteOrder
	cfg.Decode.ChannelOrder = chanOrder

	cmpWidth, cmpHeight := compareWidth, compareHeight
	if compareCropVis {
		crop := image.Rect(0, 0, vram.DisplayWidth, vram.DisplayHeight)
		cfg.Crop = &crop
		cmpWidth, cmpHeight = crop.Dx(), crop.Dy()
	}

	if compareGrid != "" {
		regions, err := parseGrid(compareGrid, cmpWidth, cmpHeight, compareGridMargin)
		if err != nil {
			return diff.Config{}, err
		}
		cfg.Regions = regions
	}

	return cfg, nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := compareFlagsConfig()
	if err != nil {
		return err
	}

	res, err := diff.Compare(compareDump, compareRef, cfg)
	if err != nil {
		return err
	}

	if err := report.WriteText(os.Stdout, res); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if compareOutDir != "" {
		if err := writeArtifacts(compareOutDir, res, compareAmplify); err != nil {
			return err
		}
		fmt.Printf("Wrote images to %s\n", compareOutDir)
	}

	if compareSave {
		id, err := saveResult(compareDataDir, res)
		if err != nil {
			return err
		}
		fmt.Printf("Saved result %s\n", id)
	}

	if res.Overall.MatchPercent < compareMinMatch {
		return fmt.Errorf("match %.2f%% below threshold %.2f%%",
			res.Overall.MatchPercent, compareMinMatch)
	}
	return nil
}

// saveResult persists the comparison and its artifacts into the store so
// `results` can list it later.
func saveResult(dataDir string, res *diff.Result) (string, error) {
	resultStore, err := store.NewFSStore(dataDir)
	if err != nil {
		return "", fmt.Errorf("failed to create result store: %w", err)
	}

	id := uuid.New().String()
	rec := store.NewRecord(id, store.CompareConfig{
		DumpPath:      res.DumpPath,
		RefPath:       res.RefPath,
		Format:        compareFormat,
		ChannelOrder:  compareChanOrder,
		PrecisionBits: res.PrecisionBits,
		Tolerance:     uint8(compareTolerance),
		CropVisible:   compareCropVis,
		Shape:         compareShape,
	}, res)
	if err := resultStore.SaveResult(id, rec); err != nil {
		return "", err
	}

	if err := writeArtifacts(resultStore.ResultDir(id), res, compareAmplify); err != nil {
		return "", err
	}
	f, err := os.Create(resultStore.ArtifactPath(id, "report.txt"))
	if err != nil {
		return "", fmt.Errorf("failed to create report artifact: %w", err)
	}
	defer f.Close()
	if err := report.WriteText(f, res); err != nil {
		return "", err
	}
	return id, nil
}

// writeArtifacts renders the decoded, classification and amplified images
// into dir.
func writeArtifacts(dir string, res *diff.Result, amplify float32) error {
	if err := report.SavePNG(res.Decoded.Image(), filepath.Join(dir, "decoded.png")); err != nil {
		return err
	}
	if err := report.SavePNG(report.ClassificationImage(res.Map), filepath.Join(dir, "diff.png")); err != nil {
		return err
	}
	amplified, err := report.AmplifiedImage(res.Reference, res.Decoded, amplify)
	if err != nil {
		return err
	}
	return report.SavePNG(amplified, filepath.Join(dir, "amplified.png"))
}
