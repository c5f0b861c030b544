package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mapl/internal/diag"
	"mapl/internal/diagfmt"
	"mapl/internal/source"
	"mapl/internal/version"
)

type diagFormat string

const (
	diagFormatPlain  diagFormat = "plain"
	diagFormatPretty diagFormat = "pretty"
	diagFormatJSON   diagFormat = "json"
	diagFormatSarif  diagFormat = "sarif"
)

func readDiagFormat(value string) (diagFormat, error) {
	switch f := diagFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case diagFormatPlain, diagFormatPretty, diagFormatJSON, diagFormatSarif:
		return f, nil
	case "":
		return diagFormatPretty, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected plain|pretty|json|sarif)", value)
	}
}

// machineReadable reports whether the format owns stdout.
func (f diagFormat) machineReadable() bool {
	return f == diagFormatJSON || f == diagFormatSarif
}

// emitDiagnostics prints bag in the chosen format. Human formats go to
// stderr, machine formats to stdout.
func emitDiagnostics(cmd *cobra.Command, format diagFormat, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil {
		return nil
	}
	bag.Sort()
	switch format {
	case diagFormatJSON:
		return diagfmt.JSON(cmd.OutOrStdout(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			Paths:            source.PathAsLoaded,
			IncludeNotes:     true,
		})
	case diagFormatSarif:
		return diagfmt.Sarif(cmd.OutOrStdout(), bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "mapl",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		})
	case diagFormatPlain:
		if err := diagfmt.Plain(cmd.ErrOrStderr(), bag, fs); err != nil {
			return err
		}
	default:
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   2,
			Paths:     source.PathRelative,
			ShowNotes: true,
		})
	}
	if n := bag.Dropped(); n > 0 {
		printf(cmd.ErrOrStderr(), "%s not shown (raise --max-diagnostics)\n", plural(n, "more diagnostic"))
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
