package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/logging"
)

func main() {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err == nil {
		logging.Default().Debug().Msg("loaded .env file")
	}

	if err := newRootCmd(&app{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "analyzer",
		Short:         "Reconcile save folders against the item catalog and manage save backups",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(reportCmd(a))
	root.AddCommand(backupCmd(a))
	root.AddCommand(versionCmd())
	return root
}
