package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mapl/internal/buildpipeline"
	"mapl/internal/compiler"
	"mapl/internal/diag"
	"mapl/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.mapl...]",
	Short: "Compile MaPL scripts to bytecode",
	Long: `Build compiles every script together with its imports, writes one .maplb
bytecode file per script and a C header that numbers every API symbol the
scripts use. Without arguments the scripts listed in mapl.toml are built.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringArrayP("output", "o", nil, "bytecode output path, paired with the script in the same position")
	buildCmd.Flags().StringP("symbols", "s", "", "path of the generated symbol table (.h)")
	buildCmd.Flags().String("prefix", "", "enum name of the symbol table (default: symbol table file name)")
	buildCmd.Flags().Bool("debug", false, "include debug line, variable and scope markers")
	buildCmd.Flags().String("format", "pretty", "diagnostics format (plain|pretty|json|sarif)")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	buildCmd.Flags().Bool("cache", true, "reuse artifacts of identical earlier builds")
	buildCmd.Flags().Bool("no-cache", false, "disable the build cache")
	buildCmd.Flags().Int("jobs", 0, "parallel writers (0 = GOMAXPROCS)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	outputs, _ := flags.GetStringArray("output")
	symbols, _ := flags.GetString("symbols")
	prefix, _ := flags.GetString("prefix")
	debug, _ := flags.GetBool("debug")
	formatStr, _ := flags.GetString("format")
	uiStr, _ := flags.GetString("ui")
	cacheOn, _ := flags.GetBool("cache")
	noCache, _ := flags.GetBool("no-cache")
	jobs, _ := flags.GetInt("jobs")

	root := cmd.Root().PersistentFlags()
	quiet, _ := root.GetBool("quiet")
	timings, _ := root.GetBool("timings")
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	format, err := readDiagFormat(formatStr)
	if err != nil {
		return err
	}
	ui, err := readSwitch("ui", uiStr)
	if err != nil {
		return err
	}
	workDir, err := workingDir()
	if err != nil {
		return err
	}
	in, err := resolveInputs(args, inputFlags{outputs: outputs, symbols: symbols, prefix: prefix, debug: debug}, workDir)
	if err != nil {
		return err
	}

	req := &driver.BuildRequest{
		Scripts:        in.Scripts,
		Symbols:        in.Symbols,
		Prefix:         in.Prefix,
		Debug:          in.Debug,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}
	if cacheOn && !noCache {
		cache, cacheErr := driver.OpenBuildCache("mapl")
		if cacheErr != nil {
			printf(cmd.ErrOrStderr(), "warning: build cache disabled: %v\n", cacheErr)
		} else {
			req.Cache = cache
		}
	}

	var res driver.BuildResult
	if useProgressUI(ui, quiet, format) {
		res, err = runBuildWithUI(cmd.Context(), "mapl build", in.BaseDir, req)
	} else {
		res, err = driver.Build(cmd.Context(), req)
	}

	var compileErr *compiler.Error
	if res.Compile != nil && (errors.As(err, &compileErr) || res.Compile.Diagnostics.Len() > 0) {
		if emitErr := emitDiagnostics(cmd, format, res.Compile.Diagnostics, res.Compile.FileSet); emitErr != nil {
			return emitErr
		}
	}
	if timings {
		if tErr := printStageTimings(cmd.ErrOrStderr(), res.Timings, res.Timer); tErr != nil {
			return tErr
		}
	}
	if err != nil {
		dumpTraceRing(cmd)
		if compileErr != nil {
			return fmt.Errorf("build failed: %s", plural(res.Compile.Diagnostics.Count(diag.SevError), "error"))
		}
		return err
	}

	if !quiet && !format.machineReadable() {
		from := ""
		if res.Cached {
			from = " (cached)"
		}
		printf(cmd.OutOrStdout(), "built %s, symbols in %s%s\n",
			plural(len(in.Scripts), "script"), buildpipeline.DisplayName(in.Symbols, in.BaseDir), from)
	}
	return nil
}
