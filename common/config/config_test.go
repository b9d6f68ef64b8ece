package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp endpoint file: %v", err)
	}
	return path
}

func TestLoadEndpointFile(t *testing.T) {
	path := writeTempFile(t, `
uris:
  - mongodb://primary:27017/test
  - mongodb://secondary:27017/test
db: sandbox
collection: regs
`)
	parsed, err := LoadEndpointFile(path)
	if err != nil {
		t.Fatalf("LoadEndpointFile failed: %v", err)
	}
	if len(parsed.URIs) != 2 {
		t.Fatalf("got %v URIs, want 2", len(parsed.URIs))
	}
	if parsed.URIs[0] != "mongodb://primary:27017/test" {
		t.Errorf("first URI = %q, priority order not preserved", parsed.URIs[0])
	}
	if parsed.DB != "sandbox" || parsed.Collection != "regs" {
		t.Errorf("namespace = %v.%v, want sandbox.regs", parsed.DB, parsed.Collection)
	}
}

func TestLoadEndpointFileMalformed(t *testing.T) {
	path := writeTempFile(t, "uris: [unterminated")
	if _, err := LoadEndpointFile(path); err == nil {
		t.Fatal("malformed YAML should be an error")
	}
}

func TestLoadEndpointFileMissing(t *testing.T) {
	if _, err := LoadEndpointFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file should be an error")
	}
}
