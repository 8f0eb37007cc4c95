package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/scribe/internal/geometry"
	"github.com/abhisek/scribe/internal/stroke"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <strokes.json>",
	Short: "Print shape metrics for a stroke file",
	Long: "Metrics prints stroke count, lengths, bounds and density. With --ideal it\n" +
		"also compares the attempt against a reference stroke file.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strokes, err := stroke.ReadFile(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		user := geometry.Measure(strokes)
		printMetrics(w, user)

		idealPath, _ := cmd.Flags().GetString("ideal")
		if idealPath == "" {
			return nil
		}
		ideal, err := stroke.ReadFile(idealPath)
		if err != nil {
			return err
		}
		c, err := geometry.CompareMetrics(user, geometry.Measure(ideal))
		if err != nil {
			return fmt.Errorf("compare with %s: %w", idealPath, err)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Compared with", idealPath)
		fmt.Fprintf(w, "  Size diff:        %.3f\n", c.Size)
		fmt.Fprintf(w, "  Proportion diff:  %.3f\n", c.Proportion)
		fmt.Fprintf(w, "  Stroke count diff: %.0f\n", c.StrokeCount)
		fmt.Fprintf(w, "  Density diff:     %.3f\n", c.Density)
		fmt.Fprintf(w, "  Similarity:       %.1f%%\n", c.Score)
		return nil
	},
}

func printMetrics(w io.Writer, m geometry.Metrics) {
	fmt.Fprintf(w, "Strokes:       %d\n", m.StrokeCount)
	fmt.Fprintf(w, "Total length:  %.1f\n", m.TotalLength)
	fmt.Fprintf(w, "Mean length:   %.1f\n", m.MeanLength)
	if m.Empty {
		fmt.Fprintln(w, "Bounds:        (no points)")
		return
	}
	b := m.Bounds
	fmt.Fprintf(w, "Bounds:        (%.1f, %.1f)-(%.1f, %.1f)  %.1f x %.1f\n",
		b.MinX, b.MinY, b.MaxX, b.MaxY, b.Width, b.Height)
	fmt.Fprintf(w, "Center:        (%.1f, %.1f)\n", b.CenterX, b.CenterY)
	fmt.Fprintf(w, "Density:       %.4f\n", m.Density)
}

func init() {
	metricsCmd.Flags().String("ideal", "", "Reference stroke file to compare against")
}
