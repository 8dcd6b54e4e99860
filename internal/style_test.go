// Package internal holds project-wide tests: source style compliance and
// cross-package integration of the analysis pipeline.
package internal

import (
	"bytes"
	"go/format"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// projectRoot returns the repository root, whether the test runs from
// internal/ or from the root.
func projectRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if filepath.Base(wd) == "internal" {
		return filepath.Dir(wd)
	}
	return wd
}

// TestGofmtCompliance verifies that every Go source file in the project is
// gofmt-clean. If it fails, run: gofmt -w .
func TestGofmtCompliance(t *testing.T) {
	root := projectRoot(t)

	var unformatted []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// Skip vendor, hidden, and underscore-prefixed directories,
			// same as the go tool does.
			name := info.Name()
			if path != root && (name == "vendor" || name == "testdata" ||
				strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		formatted, err := format.Source(content)
		if err != nil {
			// Skip files that don't parse
			return nil
		}

		if !bytes.Equal(content, formatted) {
			relPath, _ := filepath.Rel(root, path)
			unformatted = append(unformatted, relPath)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk %s: %v", root, err)
	}

	if len(unformatted) > 0 {
		t.Errorf("the following files are not gofmt-clean:")
		for _, f := range unformatted {
			t.Errorf("  - %s", f)
		}
		t.Errorf("run 'gofmt -w .' to fix them")
	}
}

// TestGolangciLintCompliance runs golangci-lint over the project when the
// tool is installed, and skips otherwise.
func TestGolangciLintCompliance(t *testing.T) {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		t.Skip("golangci-lint not found in PATH, skipping test")
	}

	// A per-test build cache keeps the run writable on sandboxed runners.
	goCache := t.TempDir()

	cmd := exec.Command("golangci-lint", "run", "--allow-parallel-runners", "./...")
	cmd.Dir = projectRoot(t)
	cmd.Env = append(os.Environ(), "GOCACHE="+goCache)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Errorf("golangci-lint found issues:\n%s", output)
	}
}
