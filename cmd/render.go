package main

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/superpsx/vramdiff/internal/report"
	"github.com/superpsx/vramdiff/internal/vram"
)

var (
	renderDump      string
	renderOut       string
	renderFormat    string
	renderByteOrder string
	renderChanOrder string
	renderWidth     int
	renderHeight    int
	renderCropVis   bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Decode a VRAM dump to a PNG image",
	Long: `Decodes a raw VRAM dump and writes it out as a PNG without comparing it
to anything. Useful for eyeballing what the rasterizer actually produced.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderDump, "dump", "", "VRAM dump path (required)")
	renderCmd.Flags().StringVar(&renderOut, "out", "vram.png", "Output PNG path")
	renderCmd.Flags().StringVar(&renderFormat, "format", "auto", "Dump pixel format: auto, 16bpp, 32bpp")
	renderCmd.Flags().StringVar(&renderByteOrder, "byte-order", "le", "16bpp word byte order: le, be")
	renderCmd.Flags().StringVar(&renderChanOrder, "channel-order", "rgb", "Channel order inside a pixel word: rgb, bgr")
	renderCmd.Flags().IntVar(&renderWidth, "width", vram.CanvasWidth, "Canvas width in pixels")
	renderCmd.Flags().IntVar(&renderHeight, "height", vram.CanvasHeight, "Canvas height in pixels")
	renderCmd.Flags().BoolVar(&renderCropVis, "crop-visible", false, "Write only the 320x224 visible display area")

	renderCmd.MarkFlagRequired("dump")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := vram.ParseFormat(renderFormat)
	if err != nil {
		return err
	}
	byteOrder, err := parseByteOrder(renderByteOrder)
	if err != nil {
		return err
	}
	chanOrder, err := parseChannelOrder(renderChanOrder)
	if err != nil {
		return err
	}

	data, err := vram.LoadDump(renderDump)
	if err != nil {
		return err
	}

	buf, err := vram.Decode(data, renderWidth, renderHeight, vram.DecodeOptions{
		Format:       format,
		ByteOrder:    byteOrder,
		ChannelOrder: chanOrder,
	})
	if err != nil {
		return fmt.Errorf("decode %s: %w", renderDump, err)
	}

	if renderCropVis {
		buf, err = buf.Crop(image.Rect(0, 0, vram.DisplayWidth, vram.DisplayHeight))
		if err != nil {
			return err
		}
	}

	if err := report.SavePNG(buf.Image(), renderOut); err != nil {
		return err
	}

	slog.Info("Rendered dump", "dump", renderDump, "out", renderOut, "width", buf.Width, "height", buf.Height)
	fmt.Printf("Wrote %s (%dx%d)\n", renderOut, buf.Width, buf.Height)
	return nil
}
