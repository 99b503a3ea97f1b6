package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the auto|on|off switch shared by --color and --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.TrimSpace(strings.ToLower(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid value %q (expected auto|on|off)", value)
}

// enabled settles the mode; auto follows whether stdout is a terminal.
func (m uiMode) enabled(tty bool) bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return tty
}

// shouldUseTUI decides whether `build` shows the progress view. A single
// input finishes before the view would draw, so auto mode keeps it for
// multi-file builds.
func shouldUseTUI(mode uiMode, quiet bool, files int) bool {
	if files == 0 || (quiet && mode != uiModeOn) {
		return false
	}
	if mode == uiModeAuto && files < 2 {
		return false
	}
	return mode.enabled(isTerminal(os.Stdout))
}
