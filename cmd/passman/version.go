package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Переменные для версии и даты сборки, устанавливаются через ldflags.
//
//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
var (
	version    = "dev"
	buildDate  = "unknown"
	commitHash = "N/A"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию и дату сборки",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Passman")
			fmt.Fprintf(out, "Version: %s\n", version)
			fmt.Fprintf(out, "Build Date: %s\n", buildDate)
			fmt.Fprintf(out, "Commit Hash: %s\n", commitHash)
		},
	}
}
