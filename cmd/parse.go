package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scribe/internal/analysis"
)

var parseCmd = &cobra.Command{
	Use:   "parse <response.txt>",
	Short: "Run the reply parsers on saved model text",
	Long: "Parse reads a model reply from a file (or - for stdin) and prints what the\n" +
		"configured parser chain extracts from it.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(args[0])
		if err != nil {
			return err
		}
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		chain := s.Chain()
		out := chain.Parse(text)
		w := cmd.OutOrStdout()
		if !out.Parsed {
			fmt.Fprintf(w, "No parser recognized the reply (tried %s).\n", strings.Join(chain.Names(), ", "))
			return nil
		}
		printResult(w, out.Result)
		return nil
	},
}

func readText(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// printResult writes a plain-text rendering of a parsed result.
func printResult(w io.Writer, r analysis.Result) {
	fmt.Fprintf(w, "Parser:          %s\n", r.Parser)
	if r.Has(analysis.FieldStrokeQuality) {
		fmt.Fprintf(w, "Stroke quality:  %d%%\n", r.StrokeQuality.Value)
	}
	if r.Has(analysis.FieldFormation) {
		fmt.Fprintf(w, "Formation:       %d%%\n", r.Formation.Value)
	}
	if o := r.Reported.Overall; o != nil {
		fmt.Fprintf(w, "Reported overall:   %d%%\n", *o)
	}
	if f := r.Reported.Formation; f != nil {
		fmt.Fprintf(w, "Reported formation: %d%%\n", *f)
	}
	printList(w, "Next strokes", r.NextStrokes)
	if len(r.Mistakes.Mistakes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Common mistakes")
		for i, m := range r.Mistakes.Mistakes {
			fmt.Fprintf(w, "  • %s\n", m)
			if i < len(r.Mistakes.Improvements) && r.Mistakes.Improvements[i] != "" {
				fmt.Fprintf(w, "    → %s\n", r.Mistakes.Improvements[i])
			}
		}
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
}
