package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// autoSwitch is a tri-state flag value: on, off, or decided by whether the
// output is a terminal. --ui and --color share it.
type autoSwitch string

const (
	switchAuto autoSwitch = "auto"
	switchOn   autoSwitch = "on"
	switchOff  autoSwitch = "off"
)

func readSwitch(flag, value string) (autoSwitch, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always", "true":
		return switchOn, nil
	case "off", "never", "false":
		return switchOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// enabled resolves the switch for output written to f.
func (s autoSwitch) enabled(f *os.File) bool {
	switch s {
	case switchOn:
		return true
	case switchOff:
		return false
	default:
		return isTerminal(f)
	}
}

// useColor resolves the persistent --color flag for output written to f.
// An invalid value falls back to auto.
func useColor(cmd *cobra.Command, f *os.File) bool {
	value, _ := cmd.Root().PersistentFlags().GetString("color")
	s, err := readSwitch("color", value)
	if err != nil {
		s = switchAuto
	}
	return s.enabled(f)
}

// useProgressUI decides whether build shows the bubbletea view. Quiet runs
// and machine-readable diagnostics never do.
func useProgressUI(s autoSwitch, quiet bool, format diagFormat) bool {
	if quiet || format.machineReadable() {
		return false
	}
	return s.enabled(os.Stdout)
}
