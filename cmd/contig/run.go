package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute allocator commands from a file",
		Long: `The run command executes allocator commands from a file, one per line,
exactly as they would be typed at the prompt. Blank lines and lines beginning
with # are skipped. Execution stops at an EXIT command or the end of the file.

Example:
  contig run scenario.txt
  contig run scenario.txt --json --size 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, args[0])
		},
	}
	return cmd
}

func runScript(cmd *cobra.Command, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open script")
	}
	defer file.Close()

	sh, err := newSession(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	return sh.Run(file, false)
}
