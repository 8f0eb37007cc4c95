package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/scribe/internal/app"
	"github.com/abhisek/scribe/internal/screens/home"
	"github.com/abhisek/scribe/internal/screens/practice"
	"github.com/abhisek/scribe/internal/script"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Open the drawing canvas (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
}

// runPractice wires the pipeline and launches the terminal UI. Logs go to
// the log file because the UI owns the terminal.
func runPractice(cmd *cobra.Command) error {
	e, err := newEnv(cmd, envOptions{LogFile: true})
	if err != nil {
		return err
	}
	defer e.Close()

	s := e.settings
	cfg := practice.Config{
		Catalog:    script.Default(),
		Runner:     e.analyzer,
		Quiescence: s.Practice.Quiescence,
		Raster:     s.RasterOptions(),
	}

	root := home.New(cfg, s.Practice.Language, s.Practice.Level)
	return app.Run(cmdContext(cmd), root, e.status())
}
