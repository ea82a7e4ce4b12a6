package cmd

import (
	"github.com/rskv-p/htree/cmd/cmd_tree"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "htree",
	Short:         "Hash-tree scripting and HTTP server",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for _, c := range cmd_tree.Commands() {
		rootCmd.AddCommand(c)
	}
}
