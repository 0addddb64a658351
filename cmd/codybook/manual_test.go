package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadContextPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample-code.md")
	if err := os.WriteFile(path, []byte("# Sample\ncode here\n"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	content, err := loadContext(path)
	if err != nil {
		t.Fatalf("loadContext failed: %v", err)
	}
	if !strings.Contains(content, "code here") {
		t.Errorf("content = %q", content)
	}
}

func TestLoadContextGlob(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src", "sub"), 0o755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	files := map[string]string{
		"src/a.go":     "package a\n",
		"src/sub/b.go": "package b\n",
		"src/ignore.txt": "not go\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), []byte(body), 0o644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}

	content, err := loadContext(filepath.Join(dir, "src") + "/**/*.go")
	if err != nil {
		t.Fatalf("loadContext failed: %v", err)
	}

	if !strings.Contains(content, "package a") || !strings.Contains(content, "package b") {
		t.Errorf("glob should concatenate all matches, got %q", content)
	}
	if strings.Contains(content, "not go") {
		t.Error("non-matching file included")
	}
	if !strings.Contains(content, "// File: ") {
		t.Error("missing file path banners")
	}
}

func TestLoadContextMissing(t *testing.T) {
	if _, err := loadContext(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatal("missing file must error")
	}
}

func TestIsQuit(t *testing.T) {
	for _, input := range []string{"quit", "exit", "bye", "QUIT", "Bye"} {
		if !isQuit(input) {
			t.Errorf("isQuit(%q) = false", input)
		}
	}
	for _, input := range []string{"", "hello", "quit now"} {
		if isQuit(input) {
			t.Errorf("isQuit(%q) = true", input)
		}
	}
}
