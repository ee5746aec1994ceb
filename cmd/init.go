package cmd

import (
	"github.com/spf13/cobra"

	"github.com/omarselim/codeviz/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize codeviz configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure codeviz for your project and generates a .codeviz.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
