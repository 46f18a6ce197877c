package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{EnvFile: noEnvFile(t)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Default()
	if *cfg != want {
		t.Errorf("got %+v, want %+v", *cfg, want)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "phonebill.yaml", "report: grouped\nyear: 2013\nstrict: true\ndb: bills.db\n")

	cfg, err := Load(Options{ConfigFile: path, EnvFile: noEnvFile(t)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Report != "grouped" || cfg.Year != 2013 || !cfg.Strict || cfg.DB != "bills.db" {
		t.Errorf("got %+v", *cfg)
	}
	if cfg.Encoding != "cp1250" {
		t.Errorf("encoding = %q, want default cp1250", cfg.Encoding)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "phonebill.yaml", "report: grouped\n")
	t.Setenv("PHONEBILL_REPORT", "inline")

	cfg, err := Load(Options{ConfigFile: path, EnvFile: noEnvFile(t)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Report != "inline" {
		t.Errorf("report = %q, want inline", cfg.Report)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "PHONEBILL_YEAR=2014\n")
	t.Cleanup(func() { os.Unsetenv("PHONEBILL_YEAR") })

	cfg, err := Load(Options{EnvFile: envFile})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Year != 2014 {
		t.Errorf("year = %d, want 2014", cfg.Year)
	}
}

func TestLoadFlagsOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "phonebill.yaml", "report: grouped\nencoding: utf-8\n")

	fs := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	fs.String("report", "inline", "")
	fs.String("encoding", "cp1250", "")
	if err := fs.Parse([]string{"--report", "inline"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Options{ConfigFile: path, EnvFile: noEnvFile(t), Flags: fs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Report != "inline" {
		t.Errorf("report = %q, want flag value inline", cfg.Report)
	}
	if cfg.Encoding != "utf-8" {
		t.Errorf("encoding = %q, want file value utf-8", cfg.Encoding)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"bad encoding", "encoding: latin9\n", true},
		{"bad source", "source: ocr\n", true},
		{"bad year", "year: 12\n", true},
		{"bad yaml", "report: [\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "phonebill.yaml", tt.content)
			_, err := Load(Options{ConfigFile: path, EnvFile: noEnvFile(t)})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (%v)", got, tt.invalid, err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), EnvFile: noEnvFile(t)})
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateNormalizes(t *testing.T) {
	cfg := Default()
	cfg.Report = " Grouped "
	cfg.Encoding = "UTF-8"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Report != "grouped" || cfg.Encoding != "utf-8" {
		t.Errorf("got %+v", cfg)
	}
}
