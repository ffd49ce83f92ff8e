package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command in-process with fresh global flags and
// returns its stdout. Only happy paths run here; error paths exit the
// process and are covered at the engine level.
func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	flags = rootFlags{}

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("strata %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestCLI_Version(t *testing.T) {
	out := runCLI(t, "version")
	if !strings.Contains(out, "strata v") {
		t.Errorf("version output = %q", out)
	}
}

func TestCLI_OrderLifecycle(t *testing.T) {
	configDir := t.TempDir()
	workspace := filepath.Join(t.TempDir(), "strata.db")
	global := func(args ...string) []string {
		return append([]string{"--config-dir", configDir, "--workspace", workspace}, args...)
	}

	out := runCLI(t, global("init")...)
	if !strings.Contains(out, "initialized") {
		t.Errorf("init output = %q", out)
	}

	runCLI(t, global("create", "orders",
		"id:INTEGER:pk", "orderid:INTEGER", "supplier:TEXT", "total:REAL")...)

	out = runCLI(t, global("schema", "orders")...)
	if !strings.Contains(out, "id INTEGER") || !strings.Contains(out, "total REAL") {
		t.Errorf("schema output = %q", out)
	}

	// Insert through set, then upsert the same keys.
	out = runCLI(t, global("set", "orders",
		"-k", "orderid=1001", "-k", "supplier=Widget Co", "-v", "total=100")...)
	if !strings.Contains(out, "inserted") {
		t.Errorf("set output = %q", out)
	}
	out = runCLI(t, global("set", "orders",
		"-k", "orderid=1001", "-k", "supplier=Widget Co", "-v", "total=150")...)
	if !strings.Contains(out, "updated") {
		t.Errorf("second set output = %q", out)
	}

	out = runCLI(t, global("count", "orders")...)
	if strings.TrimSpace(out) != "1" {
		t.Errorf("count = %q, want 1", out)
	}

	out = runCLI(t, global("get", "orders", "-k", "orderid=1001", "-c", "total")...)
	if !strings.Contains(out, "150") {
		t.Errorf("get output = %q", out)
	}

	out = runCLI(t, global("del", "orders", "-k", "orderid=1001")...)
	if !strings.Contains(out, "deleted 1") {
		t.Errorf("del output = %q", out)
	}

	out = runCLI(t, global("count", "orders")...)
	if strings.TrimSpace(out) != "0" {
		t.Errorf("count after delete = %q, want 0", out)
	}
}
