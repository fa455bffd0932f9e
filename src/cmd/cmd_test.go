package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"SocialInsights/src/config"
	"SocialInsights/src/datasource/file"
	"SocialInsights/src/processor"
)

const csvData = `Town,Percentage of Women,Percentage of Men,Average family size - 1 to 3 members,Average family size - 4 to 6 members,Average family size - 7 or more members,Percentage of Eldelry - 65 or more years
Aabadiyeh,51,49,3,2,1,12
Aachqout,49,51,4,3,0,15
Fourzol,50,50,0,0,0,9
Aachqout,52,48,2,2,2,11
`

func csvLoader() processor.Loader {
	return processor.LoaderFunc(func(context.Context) (dataframe.DataFrame, error) {
		return file.ReadCSV(strings.NewReader(csvData), "utf-8")
	})
}

func TestRunRender(t *testing.T) {
	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "charts")

	if err := runRender(context.Background(), &out, csvLoader(), config.DefaultDataConfig(), dir, "", true); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if n := strings.Count(out.String(), "✓"); n != 4 {
		t.Errorf("reported %d files, want 4:\n%s", n, out.String())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("dir holds %d files, want 4", len(entries))
	}
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	dc := config.DefaultDataConfig()

	csvPath := filepath.Join(dir, "towns.csv")
	var out bytes.Buffer
	if err := runExport(context.Background(), &out, csvLoader(), dc, csvPath); err != nil {
		t.Fatalf("runExport csv: %v", err)
	}
	b, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(strings.SplitN(string(b), "\n", 2)[0], dc.Columns.AverageFamily) {
		t.Errorf("csv header misses derived column: %s", b)
	}
	if !strings.Contains(out.String(), "4 towns") {
		t.Errorf("output = %q", out.String())
	}

	xlsxPath := filepath.Join(dir, "towns.xlsx")
	if err := runExport(context.Background(), &out, csvLoader(), dc, xlsxPath); err != nil {
		t.Fatalf("runExport xlsx: %v", err)
	}
	if st, err := os.Stat(xlsxPath); err != nil || st.Size() == 0 {
		t.Errorf("xlsx missing or empty: %v", err)
	}

	if err := runExport(context.Background(), &out, csvLoader(), dc, filepath.Join(dir, "towns.json")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestRunDescribe(t *testing.T) {
	var out bytes.Buffer
	if err := runDescribe(context.Background(), &out, csvLoader(), config.DefaultDataConfig(), "en", true); err != nil {
		t.Fatalf("runDescribe: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Towns: 4", "mean", "Aachqout x2", "TownRecord"} {
		if !strings.Contains(got, want) {
			t.Errorf("output misses %q:\n%s", want, got)
		}
	}
}

func TestLocalizeNumber(t *testing.T) {
	de := message.NewPrinter(language.German)
	if got := localizeNumber(de, "1234.5"); !strings.HasSuffix(got, ",50") {
		t.Errorf("german = %q, want decimal comma", got)
	}
	if got := localizeNumber(de, "mean"); got != "mean" {
		t.Errorf("non-number changed: %q", got)
	}
}

func TestRunInitConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")
	var out bytes.Buffer

	if err := runInitConfig(&out, dir, "config.yaml", "dataconfig.json", false); err != nil {
		t.Fatalf("runInitConfig: %v", err)
	}
	if err := runInitConfig(&out, dir, "config.yaml", "dataconfig.json", false); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if err := runInitConfig(&out, dir, "config.yaml", "dataconfig.json", true); err != nil {
		t.Fatalf("runInitConfig --force: %v", err)
	}

	c, d, err := config.LoadConfig(dir, "config.yaml", "dataconfig.json")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Server.Addr != ":8501" {
		t.Errorf("addr = %q", c.Server.Addr)
	}
	if d.GetSlider() != config.DefaultDataConfig().Slider {
		t.Errorf("slider = %+v", d.GetSlider())
	}
}

func TestInitConfigCommand(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init-config", "--config-dir", dir})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, name := range []string{"config.json", "dataconfig.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestNewLoader(t *testing.T) {
	c := config.DefaultConfig()
	if _, err := newLoader(c); err != nil {
		t.Fatalf("default url source: %v", err)
	}

	c.Source.Kind = "mail"
	if _, err := newLoader(c); err == nil {
		t.Error("mail source without server should fail")
	}
	c.Email.Server = "imap.example.com:993"
	if _, err := newLoader(c); err != nil {
		t.Errorf("mail source: %v", err)
	}

	c.Source.Kind = "ftp"
	if _, err := newLoader(c); err == nil {
		t.Error("unknown source kind should fail")
	}
}
