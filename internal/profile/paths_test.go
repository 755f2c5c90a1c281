package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := Dir("default")
	want := filepath.Join(home, ".scalachat", "profiles", "default")
	if got != want {
		t.Errorf("Dir(default) = %q, want %q", got, want)
	}
}

func TestDBPath(t *testing.T) {
	got := DBPath("work")
	if !strings.HasSuffix(got, filepath.Join("profiles", "work", "chat.db")) {
		t.Errorf("DBPath(work) = %q, want suffix profiles/work/chat.db", got)
	}
}

func TestLockPath(t *testing.T) {
	got := LockPath("work")
	if !strings.HasSuffix(got, filepath.Join("profiles", "work", "LOCK")) {
		t.Errorf("LockPath(work) = %q, want suffix profiles/work/LOCK", got)
	}
}

func TestLogPath(t *testing.T) {
	got := LogPath("work")
	if !strings.HasSuffix(got, filepath.Join("work", "logs", "client.log")) {
		t.Errorf("LogPath(work) = %q, want suffix work/logs/client.log", got)
	}
}
