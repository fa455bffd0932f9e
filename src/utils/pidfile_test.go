package utils

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestPidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.pid")
	if err := WritePid(path); err != nil {
		t.Fatalf("WritePid: %v", err)
	}
	pid, err := ReadPid(path)
	if err != nil {
		t.Fatalf("ReadPid: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}

	bad := filepath.Join(t.TempDir(), "bad.pid")
	os.WriteFile(bad, []byte("abc"), 0o644)
	if _, err := ReadPid(bad); err == nil {
		t.Error("expected error for invalid pid")
	}
	if _, err := ReadPid(filepath.Join(t.TempDir(), "missing.pid")); err == nil {
		t.Error("expected error for missing pid file")
	}
}

func TestSignalReload(t *testing.T) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP)
	defer signal.Stop(sig)

	path := filepath.Join(t.TempDir(), "app.pid")
	if err := WritePid(path); err != nil {
		t.Fatal(err)
	}
	if _, err := SignalReload(path); err != nil {
		t.Fatalf("SignalReload: %v", err)
	}

	select {
	case <-sig:
	case <-time.After(2 * time.Second):
		t.Fatal("SIGHUP not received")
	}
}
