package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mapl/internal/diagfmt"
	"mapl/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.mapl...",
	Short: "Tokenize MaPL source files",
	Long:  `Tokenize breaks MaPL source files into the tokens the parser sees`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Int("jobs", 0, "parallel tokenizers (0 = GOMAXPROCS)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fileSet, results, err := driver.Tokenize(cmd.Context(), args, nil, maxDiagnostics, jobs)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	out := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.Bag.HasErrors() {
			failed++
		}
		if err := emitDiagnostics(cmd, diagFormatPretty, r.Bag, fileSet); err != nil {
			return err
		}
		if r.Tokens == nil {
			continue
		}
		if format == "json" {
			err = diagfmt.FormatTokensJSON(out, r.Tokens, fileSet)
		} else {
			if len(results) > 1 {
				printf(out, "== %s\n", r.Path)
			}
			err = diagfmt.FormatTokensPretty(out, r.Tokens, fileSet)
		}
		if err != nil {
			return err
		}
	}
	if failed > 0 {
		printf(cmd.ErrOrStderr(), "%s failed to tokenize\n", plural(failed, "file"))
	}
	return nil
}
