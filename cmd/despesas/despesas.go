// Package despesas implements the expense sync command.
package despesas

import (
	"fmt"

	"github.com/spf13/cobra"

	"vmalves/transparencia-sync/cmd/root"
	"vmalves/transparencia-sync/internal/pipeline"
)

// Cmd represents the despesas command.
var Cmd = &cobra.Command{
	Use:   "despesas <periodo-inicial> <periodo-final> [codigo-unidade]",
	Short: "Sync expense commitments for a period into the local store",
	Long: `Fetches the expense commitments issued between periodo-inicial and
periodo-final (format MM/YYYY) from the transparency portal and stores the
ones not yet present, matching by supplier tax id, commitment number and
issue date. An optional managing-unit code restricts the query.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runDespesas,
}

func runDespesas(cmd *cobra.Command, args []string) error {
	codigoUnidade := 0
	if len(args) == 3 {
		parsed, err := root.ParseUnidade(args[2])
		if err != nil {
			return fmt.Errorf("invalid managing-unit code %q: %w", args[2], err)
		}
		codigoUnidade = parsed
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

	p := pipeline.New(root.NewFetcher(), st, nil, root.Log)
	_, err = p.SyncDespesas(cmd.Context(), args[0], args[1], codigoUnidade)
	return err
}
