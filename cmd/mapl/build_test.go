package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags returns every flag of cmd to its default so commands can run
// more than once in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, cmd := range rootCmd.Commands() {
		resetFlags(cmd)
	}
	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	runCleanups()
	return stdout.String(), stderr.String(), err
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.mapl")
	if err := os.WriteFile(main, []byte("#global void log(string message);\nlog(\"hi\");\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out", "main.maplb")
	symbols := filepath.Join(dir, "Game.h")

	stdout, stderr, err := runCLI(t, "build", "--ui=off", "--no-cache", "-o", out, "-s", symbols, main)
	if err != nil {
		t.Fatalf("build failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "built 1 script") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("bytecode not written: %v", err)
	}
	header, err := os.ReadFile(symbols)
	if err != nil || !strings.Contains(string(header), "enum Game {") {
		t.Errorf("header = %q, %v", header, err)
	}
}

func TestBuildCommandReportsErrors(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.mapl")
	if err := os.WriteFile(main, []byte("int32 x = missing;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runCLI(t, "build", "--ui=off", "--no-cache", "--format=plain", main)
	if err == nil || !strings.Contains(err.Error(), "1 error") {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(stderr, main+":1:") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestBuildCommandWritesHeapProfile(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.mapl")
	if err := os.WriteFile(main, []byte("int32 x = 1;\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	heap := filepath.Join(dir, "heap.pprof")

	_, stderr, err := runCLI(t, "build", "--ui=off", "--no-cache", "--mem-profile", heap, main)
	if err != nil {
		t.Fatalf("build failed: %v\nstderr: %s", err, stderr)
	}
	if info, err := os.Stat(heap); err != nil || info.Size() == 0 {
		t.Fatalf("heap profile not written: %v", err)
	}
}
