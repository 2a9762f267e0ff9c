package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmurph/blockadectl/internal/testutil/testlog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockade.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadClientConfigDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, "")
	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected host: %q", cfg.Host)
	}
	if cfg.RequestTimeoutMS != 10000 {
		t.Fatalf("unexpected timeout: %d", cfg.RequestTimeoutMS)
	}
	if cfg.Network.Flaky != "10%" || cfg.Network.Driver != "udn" {
		t.Fatalf("unexpected network defaults: %+v", cfg.Network)
	}
	if cfg.Network.Slow != "75ms 100ms distribution normal" {
		t.Fatalf("unexpected slow default: %q", cfg.Network.Slow)
	}
}

func TestLoadClientConfigOverridesAndTopology(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `host = "http://blockade.lab:5000"
request_timeout_ms = 2500

[network]
flaky = "30%"

[containers.db]
image = "postgres:16"
hostname = "db"
command = "postgres"
expose = [5432]

[containers.app]
image = "busybox"

[containers.app.ports]
"8080" = 80

[containers.app.links]
db = "db"
`)
	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "http://blockade.lab:5000" || cfg.RequestTimeoutMS != 2500 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.Network.Flaky != "30%" || cfg.Network.Slow == "" {
		t.Fatalf("partial network override broken: %+v", cfg.Network)
	}

	wire := cfg.BlockadeConfig()
	if len(wire.Containers) != 2 {
		t.Fatalf("unexpected containers: %+v", wire.Containers)
	}
	db := wire.Containers["db"]
	if db.Image != "postgres:16" || db.Hostname != "db" {
		t.Fatalf("unexpected db spec: %+v", db)
	}
	if db.Command == nil || *db.Command != "postgres" {
		t.Fatalf("unexpected db command: %+v", db.Command)
	}
	app := wire.Containers["app"]
	if app.Command != nil {
		t.Fatalf("app command should stay unset, got %v", *app.Command)
	}
	if app.Ports[8080] != 80 {
		t.Fatalf("unexpected app ports: %+v", app.Ports)
	}
	if app.Links["db"] != "db" {
		t.Fatalf("unexpected app links: %+v", app.Links)
	}
	if wire.Network.Flaky != "30%" {
		t.Fatalf("network override not forwarded: %+v", wire.Network)
	}
}

func TestLoadClientConfigRejectsBadInput(t *testing.T) {
	testlog.Start(t)
	if _, err := LoadClientConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := writeConfig(t, `[containers.app]
hostname = "app"
`)
	if _, err := LoadClientConfig(path); err == nil || !strings.Contains(err.Error(), "missing image") {
		t.Fatalf("expected missing image error, got %v", err)
	}

	path = writeConfig(t, `[containers.app]
image = "busybox"

[containers.app.ports]
"not-a-port" = 80
`)
	if _, err := LoadClientConfig(path); err == nil || !strings.Contains(err.Error(), "invalid published port") {
		t.Fatalf("expected invalid port error, got %v", err)
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "blockade.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("template must load cleanly: %v", err)
	}
	if len(cfg.Containers) != 2 {
		t.Fatalf("unexpected template topology: %+v", cfg.Containers)
	}
}
