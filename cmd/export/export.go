// Package export implements the CSV export of stored expenses.
package export

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vmalves/transparencia-sync/cmd/root"
)

var output string

// Cmd represents the export command.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored expenses to a CSV file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file")
	_ = Cmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := root.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close store")
		}
	}()

	despesas, err := st.ListDespesas(cmd.Context())
	if err != nil {
		return err
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := gocsv.MarshalFile(&despesas, file); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	root.Log.WithFields(logrus.Fields{
		"output": output,
		"count":  len(despesas),
	}).Info("Exported expenses")
	return nil
}
