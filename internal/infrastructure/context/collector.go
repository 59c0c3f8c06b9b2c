// Package contextcollector gathers host facts for prompt grounding.
package contextcollector

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

// Collect snapshots the environment a generated command will run in.
// Everything here is cheap and local; no subprocesses are spawned.
func Collect() domain.HostInfo {
	wd, _ := os.Getwd()

	return domain.HostInfo{
		WorkingDir: wd,
		Shell:      detectShell(),
		OS:         runtime.GOOS,
		User:       os.Getenv("USER"),
	}
}

func detectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	return "sh"
}
