package testutil

// Shared test utilities for e2e tests.

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

// AssertLogContains checks if the output contains all expected strings
func AssertLogContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			t.Errorf("expected output to contain %q, but it didn't.\nOutput:\n%s", exp, output)
		}
	}
}

// WriteFile writes content to name inside a fresh temp dir and returns its path.
func WriteFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// RunCLI executes the binstrings binary with args, capturing stdout/stderr, with timeout.
// It is safe to call from parallel tests.
func RunCLI(t *testing.T, args []string, env []string, timeout time.Duration) (stdout, stderr string, exitErr error) {
	t.Helper()
	return RunCLIWithStdin(t, args, env, nil, timeout)
}

// RunCLIWithStdin is RunCLI with stdin connected to the given bytes.
func RunCLIWithStdin(t *testing.T, args []string, env []string, stdin []byte, timeout time.Duration) (stdout, stderr string, exitErr error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Build a per-invocation environment: start from the current process env,
	// disable config file loading for deterministic e2e tests, then apply overrides.
	// We never mutate os.Environ or os.Stdout/os.Stderr so parallel calls are safe.
	envMap := make(map[string]string, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			envMap[k] = v
		}
	}
	envMap["BINSTRINGS_NO_CONFIG"] = "1"
	for _, e := range env {
		if k, v, ok := strings.Cut(e, "="); ok {
			envMap[k] = v
		}
	}
	envSlice := make([]string, 0, len(envMap))
	for k, v := range envMap {
		envSlice = append(envSlice, k+"="+v)
	}

	var outBuf, errBuf bytes.Buffer
	err := executeCLI(ctx, args, envSlice, bytes.NewReader(stdin), &outBuf, &errBuf)

	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("command timed out after %v", timeout)
	}

	return outBuf.String(), errBuf.String(), err
}

// --- Binary execution integration ---

var (
	binaryResolved string
	binaryBuildErr error
	buildOnce      sync.Once
)

func buildBinary(moduleDir, outputPath string) error {
	cmd := exec.Command("go", "build", "-o", outputPath, "./cmd/binstrings")
	cmd.Dir = moduleDir
	cmd.Env = os.Environ()
	return cmd.Run()
}

// findModuleRoot searches upwards for the directory containing go.mod
func findModuleRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for dir := wd; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}
	return "", fmt.Errorf("module root not found from %s", wd)
}

// resolveBinary returns the path to the binstrings binary, building it once if necessary.
func resolveBinary() (string, error) {
	if binPath := os.Getenv("BINSTRINGS_BINARY"); binPath != "" {
		if !filepath.IsAbs(binPath) {
			if moduleDir, err := findModuleRoot(); err == nil {
				absPath := filepath.Join(moduleDir, binPath)
				if _, err := os.Stat(absPath); err == nil {
					return absPath, nil
				}
			}
		}
		return binPath, nil
	}

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "binstrings-e2e-")
		if err != nil {
			binaryBuildErr = err
			return
		}
		tmpBin := filepath.Join(tmpDir, "binstrings")
		if runtime.GOOS == "windows" {
			tmpBin += ".exe"
		}
		moduleDir, err := findModuleRoot()
		if err != nil {
			binaryBuildErr = err
			return
		}
		if err := buildBinary(moduleDir, tmpBin); err != nil {
			binaryBuildErr = err
			return
		}
		binaryResolved = tmpBin
	})

	if binaryBuildErr != nil {
		return "", fmt.Errorf("failed to build binstrings test binary: %w", binaryBuildErr)
	}
	return binaryResolved, nil
}

// executeCLI runs the CLI as a separate process, writing output to the provided writers.
// It uses no global state so it is safe to call concurrently.
func executeCLI(ctx context.Context, args []string, env []string, stdin io.Reader, stdout, stderr io.Writer) error {
	binPath, err := resolveBinary()
	if err != nil {
		return err
	}

	// #nosec G204 -- binPath is the test binary path, intentionally variable for testing
	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Env = env
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
