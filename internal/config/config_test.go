package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.StorePath != DefaultStorePath {
		t.Errorf("expected store path %s, got %s", DefaultStorePath, cfg.StorePath)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("expected batch size %d, got %d", DefaultBatchSize, cfg.BatchSize)
	}
}

func TestSaveThenLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	want := &Config{
		StorePath:  "var/codes.txt",
		BatchSize:  10,
		LedgerPath: "/tmp/ledger.db",
		Operator:   "front-desk",
	}

	if err := SaveConfig(tmpDir, want); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	got, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `operator = "gate-3"`)

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Operator != "gate-3" {
		t.Errorf("expected operator gate-3, got %q", cfg.Operator)
	}
	if cfg.StorePath != DefaultStorePath || cfg.BatchSize != DefaultBatchSize {
		t.Errorf("unset fields must keep defaults, got %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "invalid toml",
			content: `store_path = `,
			wantMsg: "failed to parse config",
		},
		{
			name:    "unknown key",
			content: `stor_path = "x"`,
			wantMsg: "unknown config keys",
		},
		{
			name:    "zero batch size",
			content: `batch_size = 0`,
			wantMsg: "batch_size must be positive",
		},
		{
			name:    "empty store path",
			content: `store_path = ""`,
			wantMsg: "store_path must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, tt.content)

			_, err := LoadConfig(tmpDir)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestResolveLedgerPath(t *testing.T) {
	defaultPath := func() (string, error) { return "/default/ledger.db", nil }
	home, _ := os.UserHomeDir()

	tests := []struct {
		name       string
		ledgerPath string
		want       string
	}{
		{name: "empty uses default", ledgerPath: "", want: "/default/ledger.db"},
		{name: "absolute path", ledgerPath: "/var/lib/ledger.db", want: "/var/lib/ledger.db"},
		{name: "home expansion", ledgerPath: "~/ledgers/gate.db", want: filepath.Join(home, "ledgers", "gate.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LedgerPath: tt.ledgerPath}
			got, err := cfg.ResolveLedgerPath(defaultPath)
			if err != nil {
				t.Fatalf("ResolveLedgerPath failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveLedgerPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, ".gatepass"), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(Path(dir), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}
