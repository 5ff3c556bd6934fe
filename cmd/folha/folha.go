// Package folha implements the payroll sync command.
package folha

import (
	"fmt"

	"github.com/spf13/cobra"

	"vmalves/transparencia-sync/cmd/root"
	"vmalves/transparencia-sync/internal/pipeline"
)

// Cmd represents the folha command.
var Cmd = &cobra.Command{
	Use:   "folha <referencia> [codigo-unidade]",
	Short: "Sync payroll entries for a reference period into the local store",
	Long: `Fetches the payroll entries of the reference period (format MM/YYYY) from
the transparency portal and stores the ones not yet present, matching by
registration number or tax id. An optional managing-unit code restricts the
query.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFolha,
}

func runFolha(cmd *cobra.Command, args []string) error {
	codigoUnidade := 0
	if len(args) == 2 {
		parsed, err := root.ParseUnidade(args[1])
		if err != nil {
			return fmt.Errorf("invalid managing-unit code %q: %w", args[1], err)
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
	_, err = p.SyncFolha(cmd.Context(), args[0], codigoUnidade)
	return err
}
