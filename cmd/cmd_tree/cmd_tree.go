package cmd_tree

import (
	"fmt"
	"io"
	"os"

	"github.com/rskv-p/htree/pkg/x_htree"
	"github.com/rskv-p/htree/pkg/x_log"
	"github.com/rskv-p/htree/pkg/x_script"

	"github.com/spf13/cobra"
)

var configPath string

// Commands returns the tree subcommands for the root command.
func Commands() []*cobra.Command {
	return []*cobra.Command{runCmd, dumpCmd, serveCmd, tokenCmd}
}

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Apply a script to an empty tree and print its output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runScript(args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		return err
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Apply a script and print the resulting tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := runScript(args[0], cmd.InOrStdin(), io.Discard)
		if err != nil {
			return err
		}
		t.Dump(cmd.OutOrStdout())
		return nil
	},
}

// runScript executes the script at path ("-" reads stdin) on a fresh tree.
func runScript(path string, stdin io.Reader, out io.Writer) (*x_script.Tree, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		r = f
	}

	log := x_log.New("script")
	t := x_htree.New(x_htree.WithLogger[string, string](log))
	rn := x_script.NewRunner(t, out)
	rn.Log = log
	if err := rn.Run(r); err != nil {
		return nil, err
	}
	x_log.Debug().Str("script", path).Int("size", t.Len()).Msg("script applied")
	return t, nil
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default $HTREE_CONFIG or ./htree.json)")
	tokenCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default $HTREE_CONFIG or ./htree.json)")
	tokenCmd.Flags().String("subject", "cli", "token subject")
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (default 24h)")
}
