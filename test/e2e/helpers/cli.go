//go:build e2e

// Package helpers runs the peercatalog binary for E2E tests.
package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// CLIRunner executes peercatalog commands against one catalog database
// with JSON output for reliable parsing.
type CLIRunner struct {
	env []string
}

// CatalogEnv describes the catalog database a runner points at.
type CatalogEnv struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// NewCLIRunner creates a runner whose commands connect to the given catalog
// through PEERCATALOG_* environment variables.
func NewCLIRunner(c CatalogEnv) *CLIRunner {
	return &CLIRunner{env: []string{
		"PEERCATALOG_CATALOG_HOST=" + c.Host,
		fmt.Sprintf("PEERCATALOG_CATALOG_PORT=%d", c.Port),
		"PEERCATALOG_CATALOG_USER=" + c.User,
		"PEERCATALOG_CATALOG_PASSWORD=" + c.Password,
		"PEERCATALOG_CATALOG_DATABASE=" + c.Database,
		"PEERCATALOG_LOGGING_LEVEL=WARN",
		// Keep a developer's own config file out of the run.
		"XDG_CONFIG_HOME=" + os.TempDir(),
	}}
}

// Run executes peercatalog with --output json prepended.
func (r *CLIRunner) Run(args ...string) ([]byte, error) {
	return r.exec("", append([]string{"--output", "json"}, args...)...)
}

// RunRaw executes peercatalog without prepending standard args.
func (r *CLIRunner) RunRaw(args ...string) ([]byte, error) {
	return r.exec("", args...)
}

// RunWithInput executes peercatalog with --output json and the given stdin.
func (r *CLIRunner) RunWithInput(input string, args ...string) ([]byte, error) {
	return r.exec(input, append([]string{"--output", "json"}, args...)...)
}

// RunJSON runs a command and decodes its JSON output into v.
func (r *CLIRunner) RunJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := r.Run(args...)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if err := json.Unmarshal(out, v); err != nil {
		t.Fatalf("failed to decode output of %v: %v\noutput: %s", args, err, out)
	}
}

// Start launches a long-running command such as monitor. The caller stops
// it with Process.Signal and Wait.
func (r *CLIRunner) Start(args ...string) (*exec.Cmd, *bytes.Buffer, error) {
	cmd := exec.Command(binary(), args...)
	cmd.Env = append(os.Environ(), r.env...)
	stderr := new(bytes.Buffer)
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	return cmd, stderr, nil
}

func (r *CLIRunner) exec(input string, args ...string) ([]byte, error) {
	cmd := exec.Command(binary(), args...)
	cmd.Env = append(os.Environ(), r.env...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("peercatalog %s failed: %w\nstderr: %s",
			strings.Join(args, " "), err, stderr.String())
	}
	return stdout.Bytes(), nil
}

var (
	binaryOnce sync.Once
	binaryPath string
)

// binary returns the path to the peercatalog binary, building it into the
// project root when it is neither on PATH nor already built.
func binary() string {
	binaryOnce.Do(func() {
		if path, err := exec.LookPath("peercatalog"); err == nil {
			binaryPath = path
			return
		}

		projectRoot := findProjectRoot()
		localBinary := filepath.Join(projectRoot, "peercatalog")
		if _, err := os.Stat(localBinary); err == nil {
			binaryPath = localBinary
			return
		}

		cmd := exec.Command("go", "build", "-o", localBinary, "./cmd/peercatalog/")
		cmd.Dir = projectRoot
		if _, err := cmd.CombinedOutput(); err != nil {
			// Let the first command fail with a clearer error
			binaryPath = "peercatalog"
			return
		}
		binaryPath = localBinary
	})
	return binaryPath
}

// findProjectRoot locates the project root by looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}

// UniqueTestName generates a unique name for test resources.
// Format: {prefix}_{uuid8}
func UniqueTestName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}
