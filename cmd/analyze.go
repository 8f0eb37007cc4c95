package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/scribe/internal/practice"
	"github.com/abhisek/scribe/internal/script"
	"github.com/abhisek/scribe/internal/stroke"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <strokes.json>",
	Short: "Send a stroke file to the model and print its feedback",
	Long: "Analyze runs the full pipeline once: rasterize the strokes, ask the model\n" +
		"about the given character and print the parsed feedback.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strokes, err := stroke.ReadFile(args[0])
		if err != nil {
			return err
		}
		if len(strokes) == 0 {
			return fmt.Errorf("%s has no strokes", args[0])
		}

		var opts envOptions
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			stderr := cmd.ErrOrStderr()
			opts.RawObserver = func(model string, body json.RawMessage) {
				fmt.Fprintf(stderr, "--- raw response (%s) ---\n%s\n", model, body)
			}
		}
		e, err := newEnv(cmd, opts)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireCredential(); err != nil {
			return err
		}

		job, err := analyzeJob(script.Default(), e.settings.Practice.Language, e.settings.Practice.Level, cmd)
		if err != nil {
			return err
		}
		job.Strokes = strokes

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Analyzing %q (%s, %s) with %s...\n\n",
			job.Character, job.Language.Name, job.Level.Name, e.provider.ModelID())

		c := e.analyzer.Run(cmdContext(cmd), job)
		if c.Err != nil {
			return fmt.Errorf("analysis failed: %w", c.Err)
		}
		if !c.Outcome.Parsed {
			fmt.Fprintln(w, "The model's reply was not recognized:")
			fmt.Fprintln(w)
			fmt.Fprintln(w, c.Outcome.Raw)
			return nil
		}
		printResult(w, c.Outcome.Result)
		printList(w, "Tips", script.Default().Tips(job.Language.Key, job.Level.Key))
		return nil
	},
}

// analyzeJob resolves the selection and the --char flag. The character
// defaults to the first of the level.
func analyzeJob(cat *script.Catalog, language, level string, cmd *cobra.Command) (practice.Job, error) {
	lv, err := cat.Level(language, level)
	if err != nil {
		return practice.Job{}, err
	}
	lang, _ := cat.Language(language)
	char, _ := cmd.Flags().GetString("char")
	if char == "" {
		if len(lv.Characters) == 0 {
			return practice.Job{}, fmt.Errorf("level %q has no characters", level)
		}
		char = lv.Characters[0]
	}
	return practice.Job{Language: lang, Level: lv, Character: char}, nil
}

func init() {
	analyzeCmd.Flags().String("char", "", "Character the strokes attempt (default: first of the level)")
	analyzeCmd.Flags().Bool("raw", false, "Print raw provider responses to stderr")
}
