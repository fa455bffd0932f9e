package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileMonitorFiresForTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dataconfig.json")
	other := filepath.Join(dir, "notes.txt")

	m, err := NewFileMonitor(dir, "dataconfig.json")
	if err != nil {
		t.Fatalf("NewFileMonitor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- m.Watch(ctx, func(name string) { changed <- name })
	}()

	if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte(`{"default_towns": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-changed:
		if filepath.Base(name) != "dataconfig.json" {
			t.Fatalf("handler called for %s", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change event")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Watch did not stop")
	}
}

func TestNewFileMonitorMissingDir(t *testing.T) {
	if _, err := NewFileMonitor(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
