package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	jsonOut      bool
	configPath   string
	sizeFlag     string
	strategyFlag string
)

var rootCmd = &cobra.Command{
	Use:   "contig",
	Short: "Simulate contiguous memory allocation",
	Long: `contig simulates a contiguous address space that named processes are
placed into with first-fit, best-fit, or worst-fit placement. Released space is
coalesced, and the space can be compacted to gather every hole into one.

Without a subcommand, contig reads commands from standard input. Type HELP at
the prompt for the command list.`,
	Version: "0.1.0",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh, err := newSession(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		return sh.Run(cmd.InOrStdin(), true)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print STAT output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to an ini config file")
	rootCmd.PersistentFlags().StringVar(&sizeFlag, "size", "", "Initial address space size, e.g. 512K or 1M")
	rootCmd.PersistentFlags().StringVar(&strategyFlag, "strategy", "", "Default placement strategy (f, b, or w)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newSession builds a shell from the config file and global flags, writing to out
func newSession(out io.Writer) (*shell, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	err = cfg.applyFlags(sizeFlag, strategyFlag)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = levelDebug
	}
	logger := newLogger(os.Stderr, level)

	if quiet {
		out = io.Discard
	}

	return newShell(out, cfg, logger), nil
}
