package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/scribe/internal/raster"
	"github.com/abhisek/scribe/internal/stroke"
)

var renderCmd = &cobra.Command{
	Use:   "render <strokes.json>",
	Short: "Rasterize a stroke file to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		size, _ := cmd.Flags().GetInt("size")
		width, _ := cmd.Flags().GetFloat64("line-width")

		strokes, err := stroke.ReadFile(args[0])
		if err != nil {
			return err
		}

		opts := raster.DefaultOptions()
		opts.Size = size
		opts.LineWidth = width
		payload, err := raster.Rasterize(strokes, opts)
		if err != nil {
			return fmt.Errorf("rasterize: %w", err)
		}

		if err := os.WriteFile(out, payload.Bytes, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d strokes, %d bytes)\n", out, len(strokes), len(payload.Bytes))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringP("output", "o", "strokes.png", "Output PNG path")
	renderCmd.Flags().Int("size", raster.DefaultSize, "Canvas size in pixels")
	renderCmd.Flags().Float64("line-width", raster.DefaultLineWidth, "Stroke width in pixels")
}
