package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/N7DR/drscp/internal/config"
)

type uiMode string

const (
	uiModeAuto  uiMode = config.UIAuto
	uiModePlain uiMode = config.UIPlain
	uiModeTUI   uiMode = config.UITUI
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", config.UIAuto:
		return uiModeAuto, nil
	case config.UIPlain:
		return uiModePlain, nil
	case config.UITUI:
		return uiModeTUI, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|plain|tui)", value)
	}
}

// useTUI decides whether the run renders live progress. SCP output goes to
// stdout, so the deciding terminal is stderr; auto mode also wants more than
// one contest and no verbose narration fighting for the same stream.
func useTUI(cfg config.Config, nContests int) bool {
	mode, err := readUIMode(cfg.UIMode)
	if err != nil {
		return false
	}

	switch mode {
	case uiModeTUI:
		return true
	case uiModePlain:
		return false
	default:
		return isTerminal(os.Stderr) && nContests > 1 && !cfg.Verbose && !cfg.Tracing()
	}
}
