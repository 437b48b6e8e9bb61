package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
[oracle]
ws_url = "wss://oracle.example.io/prices"

[venue]
stream_primary = "wss://events-east.example.io/ws"
stream_secondary = "wss://events-west.example.io/ws"
rpc_url = "https://relay.example.io/rpc"

[registry]
trading = "0x0000000000000000000000000000000000000001"
stable_token = "0x0000000000000000000000000000000000000002"
vault = "0x0000000000000000000000000000000000000003"
position_registry = "0x0000000000000000000000000000000000000004"

[trade]
referral = "0x0000000000000000000000000000000000000000"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Oracle.WsURL != "wss://oracle.example.io/prices" {
		t.Errorf("oracle url: got %s", cfg.Oracle.WsURL)
	}
	if cfg.Registry.Vault != "0x0000000000000000000000000000000000000003" {
		t.Errorf("vault: got %s", cfg.Registry.Vault)
	}
	if cfg.Journal.Backend != "none" {
		t.Errorf("journal backend default: got %s", cfg.Journal.Backend)
	}
}

func TestLoadRejectsMissingOracleURL(t *testing.T) {
	bad := strings.Replace(validConfig, `ws_url = "wss://oracle.example.io/prices"`, `ws_url = ""`, 1)
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Errorf("expected error for missing oracle.ws_url")
	}
}

func TestLoadRejectsMissingRegistryAddress(t *testing.T) {
	bad := strings.Replace(validConfig, `vault = "0x0000000000000000000000000000000000000003"`, `vault = ""`, 1)
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Errorf("expected error for empty registry.vault")
	}
}

func TestLoadRejectsUnknownJournalBackend(t *testing.T) {
	bad := validConfig + "\n[journal]\nbackend = \"parquet\"\n"
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Errorf("expected error for unknown journal backend")
	}
}

func TestJournalBackendRequirements(t *testing.T) {
	bad := validConfig + "\n[journal]\nbackend = \"postgres\"\n"
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Errorf("postgres backend without dsn must fail")
	}

	good := bad + "\n[journal.postgres]\ndsn = \"postgres://localhost:5432/perpdesk\"\n"
	if _, err := Load(writeConfig(t, good)); err != nil {
		t.Errorf("postgres backend with dsn: %v", err)
	}
}

func TestSQLiteDefaultsApplied(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig+"\n[journal]\nbackend = \"sqlite\"\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Journal.SQLite.Path == "" {
		t.Errorf("sqlite path default not applied")
	}
}
