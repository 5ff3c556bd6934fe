package main

import (
	"os"

	"vmalves/transparencia-sync/cmd/categorize"
	"vmalves/transparencia-sync/cmd/despesas"
	"vmalves/transparencia-sync/cmd/export"
	"vmalves/transparencia-sync/cmd/folha"
	"vmalves/transparencia-sync/cmd/root"
)

func init() {
	root.Cmd.AddCommand(despesas.Cmd)
	root.Cmd.AddCommand(folha.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(export.Cmd)
}

func main() {
	// Exit-code mapping happens exactly once, here: any uncaught pipeline
	// failure exits 1, success exits 0.
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
