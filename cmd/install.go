package cmd

import (
	"github.com/example/gymbook/internal/infrastructure/browser/playwright"
	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download the Chromium build used by the playwright driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return playwright.Install()
		},
	}
}
