package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bindery/internal/store"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()
	path := filepath.Join(base, "config.toml")
	content := fmt.Sprintf("data_dir = %q\nlog_level = \"error\"\n", filepath.Join(base, "data"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("init with --overwrite: %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	out, _, err := runCLI(t, []string{"config", "show"}, configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, filepath.Join(base, "data"))
	requireContains(t, out, "log_level  = error")
}

func TestAnalyzerListShowsBuiltins(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	out, _, err := runCLI(t, []string{"analyzer", "list"}, configPath)
	if err != nil {
		t.Fatalf("analyzer list: %v", err)
	}
	requireContains(t, out, "mhg")
	requireContains(t, out, "8c")
}

func TestOptionSetRejectsStorageKeys(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	_, _, err := runCLI(t, []string{"option", "set", "output_dir", "/tmp/x"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "option move") {
		t.Fatalf("expected redirect to option move, got %v", err)
	}
}

func TestOptionSetAndGetRoundTrip(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	if _, _, err := runCLI(t, []string{"option", "set", "threads", "5"}, configPath); err != nil {
		t.Fatalf("option set: %v", err)
	}
	out, _, err := runCLI(t, []string{"option", "get", "threads"}, configPath)
	if err != nil {
		t.Fatalf("option get: %v", err)
	}
	requireContains(t, out, "5")
}

func TestSubscribeBatchWarnsAndContinues(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	// Neither entry resolves; the command reports both and fails as a whole.
	_, errOut, err := runCLI(t,
		[]string{"subscribe", "https://nowhere.test/a", "https://nowhere.test/b"}, configPath)
	if err == nil {
		t.Fatal("all-failed batch should error")
	}
	requireContains(t, errOut, "https://nowhere.test/a")
	requireContains(t, errOut, "https://nowhere.test/b")
}

func TestListEmpty(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	out, _, err := runCLI(t, []string{"list", "--all"}, configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No subscriptions.")
}

func TestParseOptionValue(t *testing.T) {
	cases := []struct {
		key  string
		raw  string
		want any
	}{
		{"some_key", "5", 5},
		{"some_key", "0", 0},
		{"some_key", "true", true},
		{"some_key", "false", false},
		{"some_key", "hello", "hello"},
		{store.OptThreads, "8", 8},
		{store.OptArchiveDownloaded, "true", true},
		{store.OptArchiveDownloaded, "0", false},
	}
	for _, tc := range cases {
		got, err := parseOptionValue(tc.key, tc.raw)
		if err != nil {
			t.Fatalf("parseOptionValue(%q, %q): %v", tc.key, tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parseOptionValue(%q, %q) = %#v, want %#v", tc.key, tc.raw, got, tc.want)
		}
	}

	rejected := []struct{ key, raw string }{
		{store.OptThreads, "abc"},
		{store.OptThreads, "0"},
		{store.OptThreads, "-2"},
		{store.OptArchiveDownloaded, "yes"},
	}
	for _, tc := range rejected {
		if _, err := parseOptionValue(tc.key, tc.raw); err == nil {
			t.Fatalf("parseOptionValue(%q, %q) should fail", tc.key, tc.raw)
		}
	}
}

func TestOptionSetValidatesTypedKeys(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	_, _, err := runCLI(t, []string{"option", "set", "threads", "abc"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "positive integer") {
		t.Fatalf("expected threads validation error, got %v", err)
	}
	_, _, err = runCLI(t, []string{"option", "set", "archive_downloaded", "maybe"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "true or false") {
		t.Fatalf("expected archive_downloaded validation error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"option", "set", "archive_downloaded", "true"}, configPath); err != nil {
		t.Fatalf("valid bool should be accepted: %v", err)
	}
}

func TestBatchOutcome(t *testing.T) {
	if err := batchOutcome(0, 3); err != nil {
		t.Fatalf("clean batch: %v", err)
	}
	if err := batchOutcome(1, 3); err != nil {
		t.Fatalf("partial batch should not error: %v", err)
	}
	if err := batchOutcome(3, 3); err == nil {
		t.Fatal("fully failed batch should error")
	}
}
