package file

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

const townsCSV = " Town ,Percentage of Women, Percentage of Men \n" +
	"Aabadiyeh,51.2,48.8\n" +
	"Fourzol,49.5,50.5\n"

func TestLoaderFetchesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("\xef\xbb\xbf" + townsCSV))
	}))
	defer srv.Close()

	l := NewLoader(srv.URL+"/towns.csv", "", "", 5*time.Second)
	df, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if df.Nrow() != 2 || df.Ncol() != 3 {
		t.Fatalf("shape = %dx%d", df.Nrow(), df.Ncol())
	}
	// 列名原样保留，去空格由 processor 负责
	if got := df.Names()[0]; got != " Town " {
		t.Fatalf("first column = %q", got)
	}
}

func TestLoaderRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewLoader(srv.URL, "", "", time.Second)
	if _, err := l.Load(context.Background()); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestLoaderReadsLocalFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "towns.csv")
	if err := os.WriteFile(p, []byte(townsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	df, err := NewLoader(p, "utf-8", "", 0).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := df.Col(" Percentage of Men ").Float(); got[1] != 50.5 {
		t.Fatalf("men = %v", got)
	}

	if _, err := NewLoader(filepath.Join(t.TempDir(), "missing.csv"), "", "", 0).Load(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadCSVDecodesCharset(t *testing.T) {
	raw := "Town,Percentage of Women\nZahl\xe9,50\n"
	df, err := ReadCSV(strings.NewReader(raw), "windows-1252")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := df.Col("Town").Records()[0]; got != "Zahlé" {
		t.Fatalf("town = %q", got)
	}
	if _, err := ReadCSV(strings.NewReader(raw), "no-such-charset"); err == nil {
		t.Fatal("expected unknown charset error")
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"Town", "Percentage of Women", "Percentage of Men"},
		{"Aabdine", 52, 48},
		{nil, nil, nil},
		{"Aachqout", 50.5},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	df, err := ReadTable(buf.Bytes(), "https://example.org/data/towns.xlsx?v=2", "", "")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if df.Nrow() != 2 {
		t.Fatalf("rows = %d, want 2 (blank row skipped)", df.Nrow())
	}
	if got := df.Col("Town").Records(); got[1] != "Aachqout" {
		t.Fatalf("towns = %v", got)
	}

	if _, err := ReadXLSX(buf.Bytes(), "Missing"); err == nil {
		t.Fatal("expected missing sheet error")
	}
}

func TestFormatOf(t *testing.T) {
	cases := map[string]string{
		"https://linked.aub.edu.lb/pkgcube/data/x.csv": FormatCSV,
		"data/towns.XLSX":                              FormatXLSX,
		"legacy.xls":                                   FormatXLS,
		"http://host/export?format=xls":                FormatCSV,
		"noext":                                        FormatCSV,
	}
	for in, want := range cases {
		if got := FormatOf(in); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", in, got, want)
		}
	}
}
