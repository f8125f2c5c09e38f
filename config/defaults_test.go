package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	contents := "agent: my-app/2.0\ntls_insecure_skip_verify: false\nmax_msg_size: 4194304\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}

	d, err := LoadDefaultsYAML(path)
	if err != nil {
		t.Fatalf("LoadDefaultsYAML: %v", err)
	}
	if d.Agent != "my-app/2.0" {
		t.Fatalf("Agent = %q, want my-app/2.0", d.Agent)
	}
	if d.MaxMessageSize != 4194304 {
		t.Fatalf("MaxMessageSize = %d, want 4194304", d.MaxMessageSize)
	}
}

func TestLoadDefaultsYAMLMissingFile(t *testing.T) {
	if _, err := LoadDefaultsYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
