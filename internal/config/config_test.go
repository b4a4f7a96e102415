package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.GoingToCamp.Areas) == 0 {
		t.Fatal("default registry is empty")
	}
	if cfg.GoingToCamp.RequestsPerSecond <= 0 {
		t.Fatalf("default rate %v", cfg.GoingToCamp.RequestsPerSecond)
	}
}

func TestLoad_FileReplacesRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campscout.toml")
	body := `
requests_per_second = 0.5
bookable_category_ids = [-2147483648]

[[recreation_area]]
hostname = "reservations.example.com"
id = 9
name = "Example Parks"
location = "Example"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.GoingToCamp.RequestsPerSecond != 0.5 {
		t.Errorf("rate not overridden: %v", cfg.GoingToCamp.RequestsPerSecond)
	}
	if len(cfg.GoingToCamp.BookableCategoryIDs) != 1 {
		t.Errorf("categories not overridden: %v", cfg.GoingToCamp.BookableCategoryIDs)
	}
	if len(cfg.GoingToCamp.Areas) != 1 {
		t.Fatalf("registry not replaced: %+v", cfg.GoingToCamp.Areas)
	}
	a := cfg.GoingToCamp.Areas[0]
	if a.Hostname != "reservations.example.com" || a.Area.ID != 9 || a.Area.Name != "Example Parks" {
		t.Errorf("area mismatch: %+v", a)
	}
}

func TestLoad_RejectsIncompleteArea(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campscout.toml")
	body := `
[[recreation_area]]
name = "No Hostname"
id = 3
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("incomplete area accepted")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("missing explicit config accepted")
	}
}
