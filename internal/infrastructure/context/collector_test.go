package contextcollector

import (
	"os"
	"runtime"
	"testing"
)

func TestCollectSnapshotsEnvironment(t *testing.T) {
	t.Setenv("SHELL", "/bin/bash")
	t.Setenv("USER", "tester")

	host := Collect()

	if host.Shell != "bash" {
		t.Errorf("Shell = %q, want basename of $SHELL", host.Shell)
	}
	if host.User != "tester" {
		t.Errorf("User = %q, want tester", host.User)
	}
	if host.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", host.OS, runtime.GOOS)
	}
	if wd, err := os.Getwd(); err == nil && host.WorkingDir != wd {
		t.Errorf("WorkingDir = %q, want %q", host.WorkingDir, wd)
	}
}

func TestCollectFallsBackToSh(t *testing.T) {
	t.Setenv("SHELL", "")

	if got := Collect().Shell; got != "sh" {
		t.Errorf("Shell without $SHELL = %q, want sh", got)
	}
}
