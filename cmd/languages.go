package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/scribe/internal/script"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages and levels available for practice",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for i, lang := range script.Default().Languages() {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s (%s), %s script\n", lang.Name, lang.Key, lang.Script)
			for _, lv := range lang.Levels {
				sample := lv.Characters
				if len(sample) > 8 {
					sample = sample[:8]
				}
				fmt.Fprintf(w, "  %-13s %3d chars  %s\n", lv.Key, len(lv.Characters), strings.Join(sample, " "))
			}
		}
		return nil
	},
}
