// Package root contains the root command and the collaborators shared by the
// subcommands.
package root

import (
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vmalves/transparencia-sync/internal/config"
	"vmalves/transparencia-sync/internal/epublica"
	"vmalves/transparencia-sync/internal/store"
)

var (
	// Log is the shared logger instance for commands. It is reconfigured
	// from the loaded configuration before any subcommand runs.
	Log = logrus.New()

	// Cfg is the loaded configuration, available to subcommands after
	// PersistentPreRunE.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "transparencia-sync",
		Short: "Sync and categorize government transparency records",
		Long: `transparencia-sync copies expense commitments and payroll entries from the
e-Publica transparency portal into a local database, deduplicating by natural
key, and assigns a category to each expense using keyword rules with a
language-model fallback.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = config.ConfigureLogging(cfg)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
	}
)

// OpenStore connects to the configured database. The caller owns the handle
// and must Close it when the run finishes, on success and failure alike.
func OpenStore() (*store.Store, error) {
	return store.Open(Cfg.Database.URL, Log)
}

// NewFetcher builds the transparency API client from the configuration.
func NewFetcher() *epublica.Client {
	return epublica.NewClient(
		Cfg.Transparencia.BaseURL,
		time.Duration(Cfg.Transparencia.TimeoutSeconds)*time.Second,
		Log,
	)
}

// ParseUnidade parses the optional managing-unit argument. Zero means no
// filter.
func ParseUnidade(arg string) (int, error) {
	return strconv.Atoi(arg)
}
