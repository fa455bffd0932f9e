package datapush

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("content of "+n), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestPushUploadsFiles(t *testing.T) {
	var got []string
	var title string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		title = r.FormValue("title")
		for _, fh := range r.MultipartForm.File["media"] {
			got = append(got, fh.Filename)
		}
		fmt.Fprint(w, `{"errcode":0,"errmsg":"ok"}`)
	}))
	defer ts.Close()

	p := NewPusher(ts.URL)
	p.Interval = time.Millisecond
	if err := p.Push(context.Background(), "snapshot", writeFiles(t, "gender.png", "towns.xlsx")); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if title != "snapshot" || strings.Join(got, ",") != "gender.png,towns.xlsx" {
		t.Fatalf("title=%q files=%v", title, got)
	}
}

func TestPushRetriesThenFails(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"errcode":40001,"errmsg":"invalid token"}`)
	}))
	defer ts.Close()

	p := NewPusher(ts.URL)
	p.Times = 3
	p.Interval = time.Millisecond
	err := p.Push(context.Background(), "x", writeFiles(t, "a.png"))
	if err == nil || !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("err = %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnSuccess(t *testing.T) {
	n := 0
	err := retry(func() error {
		n++
		if n < 2 {
			return errors.New("temporary")
		}
		return nil
	}, 5, time.Millisecond)
	if err != nil || n != 2 {
		t.Fatalf("err=%v n=%d", err, n)
	}
}
