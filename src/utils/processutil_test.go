package utils

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

func TestDuplicateValues(t *testing.T) {
	got := DuplicateValues([]string{"a", "b", "a", "c", "c", "c"})
	if len(got) != 2 || got["a"] != 2 || got["c"] != 3 {
		t.Fatalf("DuplicateValues = %v", got)
	}
	if len(DuplicateValues(nil)) != 0 {
		t.Fatal("expected empty map")
	}
}

func TestContainsAndHasColumn(t *testing.T) {
	if !Contains([]int{1, 2, 3}, 2) || Contains([]string{"x"}, "y") {
		t.Fatal("Contains mismatch")
	}
	df := dataframe.New(series.New([]string{"A"}, series.String, "Town"))
	if !HasColumn(df, "Town") || HasColumn(df, "Men") {
		t.Fatal("HasColumn mismatch")
	}
}

func testFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"A", "B"}, series.String, "Town"),
		series.New([]float64{3.5, math.NaN()}, series.Float, "Average family size"),
	)
}

func TestSaveToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "towns.xlsx")
	if err := SaveToExcel(testFrame(), path, "Towns"); err != nil {
		t.Fatalf("SaveToExcel: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Towns")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[0][1] != "Average family size" || rows[1][1] != "3.5" {
		t.Fatalf("rows = %v", rows)
	}
	if len(rows[2]) > 1 && rows[2][1] != "" {
		t.Fatalf("NaN cell should be empty, got %q", rows[2][1])
	}
}

func TestSaveToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "towns.csv")
	if err := SaveToCSV(testFrame(), path); err != nil {
		t.Fatalf("SaveToCSV: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "Town,Average family size\n") {
		t.Fatalf("csv = %q", b)
	}
}
