package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigsDefaultsWhenFilesMissing(t *testing.T) {
	cfg, dcfg, err := LoadConfig(t.TempDir(), "config.json", "dataconfig.json")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Source.Location != DefaultSourceURL {
		t.Fatalf("source location = %q", cfg.Source.Location)
	}
	if cfg.Server.SessionTTL != 30*time.Minute {
		t.Fatalf("session ttl = %v", cfg.Server.SessionTTL)
	}
	if got := dcfg.GetSlider(); got != (Slider{Min: 10, Max: 70, Step: 10, Default: 70}) {
		t.Fatalf("slider = %+v", got)
	}
	if w := dcfg.GetBucketWeights(); w != [3]float64{1.5, 5, 7} {
		t.Fatalf("weights = %v", w)
	}
	if n := len(dcfg.GetDefaultTowns()); n != 6 {
		t.Fatalf("default towns = %d", n)
	}
	if s := dcfg.GetSample(); len(s) != 3 || s[1].Town != "Town B" || s[1].Women != 60 {
		t.Fatalf("sample = %+v", s)
	}
}

func TestLoadConfigsFromJSON(t *testing.T) {
	dir := t.TempDir()
	cfgJSON := `{
  "server": {"addr": ":9000", "session_ttl": "5m"},
  "source": {"kind": "file", "location": "towns.csv"},
  "log_max_size": "1024"
}`
	dataJSON := `{
  "default_towns": ["Fourzol"],
  "slider": {"min": 5, "max": 50, "step": 5, "default": 25},
  "sample": [{"town": "Zahle", "women": 51.5, "men": 48.5}]
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(cfgJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dataconfig.json"), []byte(dataJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, dcfg, err := LoadConfig(dir, "config.json", "dataconfig.json")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.SessionTTL != 5*time.Minute {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Source.Kind != "file" || cfg.Source.Location != "towns.csv" {
		t.Fatalf("source = %+v", cfg.Source)
	}
	// 未覆盖的键保持默认
	if cfg.Source.HTTPTimeout != 30*time.Second {
		t.Fatalf("http timeout = %v", cfg.Source.HTTPTimeout)
	}
	if got := dcfg.GetDefaultTowns(); len(got) != 1 || got[0] != "Fourzol" {
		t.Fatalf("default towns = %v", got)
	}
	if got := dcfg.GetSlider(); got.Default != 25 || got.Step != 5 {
		t.Fatalf("slider = %+v", got)
	}
	if s := dcfg.GetSample(); len(s) != 1 || s[0].Men != 48.5 {
		t.Fatalf("sample = %+v", s)
	}
	if dcfg.GetColumns().Town != "Town" {
		t.Fatalf("columns should keep defaults, got %+v", dcfg.GetColumns())
	}
}

func TestReadDataConfigRejectsBadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataconfig.json")
	if err := os.WriteFile(path, []byte(`{"bucket_weights": [1, 2]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadDataConfig(path); err == nil {
		t.Fatal("expected error for two bucket weights")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SOCIALINSIGHTS_SERVER_ADDR", ":7777")
	cfg, err := ReadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "dataconfig.yaml")
	dc := DefaultDataConfig()
	dc.DefaultTowns = []string{"Aabdine"}
	if err := Save(dc, dataPath); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := ReadDataConfig(dataPath)
	if err != nil {
		t.Fatalf("ReadDataConfig: %v", err)
	}
	if towns := got.GetDefaultTowns(); len(towns) != 1 || towns[0] != "Aabdine" {
		t.Fatalf("default towns = %v", towns)
	}

	if err := Save(dc, filepath.Join(dir, "dataconfig.toml")); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestDataConfigUpdate(t *testing.T) {
	dc := DefaultDataConfig()
	next := DefaultDataConfig()
	next.DefaultTowns = []string{"Aachqout"}
	next.Slider.Default = 40
	dc.Update(next)
	next.DefaultTowns[0] = "mutated"

	if got := dc.GetDefaultTowns(); got[0] != "Aachqout" {
		t.Fatalf("update should copy towns, got %v", got)
	}
	if dc.GetSlider().Default != 40 {
		t.Fatalf("slider default = %d", dc.GetSlider().Default)
	}
}
