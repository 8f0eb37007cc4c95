package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/scribe/internal/config"
	"github.com/abhisek/scribe/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Handwriting practice with model feedback",
	Long: "Scribe lets you practise writing characters of several scripts with the mouse\n" +
		"and asks a vision model to critique each attempt.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite journal file (overrides SCRIBE_DB env var)")
	pf.Bool("no-journal", false, "Do not record requests and analyses")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/scribe/config.toml)")
	pf.String("provider", "", "Model provider: gemini, gemini-sdk, anthropic, openai, openrouter, mock")
	pf.String("model", "", "Model name for the selected provider")
	pf.String("lang", "", "Language to practise (see 'scribe languages')")
	pf.String("level", "", "Level within the language")
	pf.BoolP("verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SCRIBE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadSettings reads the config file and layers environment and flags on
// top.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	file, err := config.LoadConfig(path)
	if err != nil {
		return config.Settings{}, err
	}

	var o config.Overrides
	o.Provider, _ = cmd.Flags().GetString("provider")
	o.Model, _ = cmd.Flags().GetString("model")
	o.Language, _ = cmd.Flags().GetString("lang")
	o.Level, _ = cmd.Flags().GetString("level")

	s, err := config.Resolve(file, o)
	if err != nil {
		return config.Settings{}, err
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		s.Log.Level = slog.LevelDebug
	}
	return s, nil
}

// openJournal opens the journal for the read-only inspection commands.
func openJournal(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
