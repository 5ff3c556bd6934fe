// Package categorize implements the batch categorization pass over stored
// expenses.
package categorize

import (
	"time"

	"github.com/spf13/cobra"

	"vmalves/transparencia-sync/cmd/root"
	"vmalves/transparencia-sync/internal/categorizer"
	"vmalves/transparencia-sync/internal/pipeline"
)

var limit int

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Assign categories to stored expenses that have none yet",
	Long: `Re-scans stored expenses whose category is still empty and resolves one for
each: first through the ordered keyword table, then through the remote
language-model classifier. Requires OPENAI_API_KEY.`,
	Args: cobra.NoArgs,
	RunE: runCategorize,
}

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of expenses to categorize (default from config)")
}

func runCategorize(cmd *cobra.Command, args []string) error {
	// A missing credential blocks the pass before anything is fetched.
	aiClient, err := categorizer.NewOpenAIClient(categorizer.OpenAIOptions{
		APIKey:  root.Cfg.OpenAI.APIKey,
		Model:   root.Cfg.OpenAI.Model,
		Timeout: time.Duration(root.Cfg.OpenAI.TimeoutSeconds) * time.Second,
	}, root.Log)
	if err != nil {
		return err
	}

	rules := categorizer.DefaultRules()
	if root.Cfg.Categorizer.RulesFile != "" {
		rules, err = categorizer.LoadRules(root.Cfg.Categorizer.RulesFile)
		if err != nil {
			return err
		}
		root.Log.WithField("rules_file", root.Cfg.Categorizer.RulesFile).Info("Loaded keyword rules")
	}

	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close store")
		}
	}()

	batchLimit := limit
	if batchLimit == 0 {
		batchLimit = root.Cfg.Categorizer.BatchLimit
	}

	resolver := categorizer.New(rules, aiClient, root.Log)
	p := pipeline.New(nil, st, resolver, root.Log)
	_, err = p.CategorizeDespesas(cmd.Context(), batchLimit)
	return err
}
