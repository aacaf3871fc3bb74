package main_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
	buildDir  string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if buildDir != "" {
		os.RemoveAll(buildDir)
	}
	os.Exit(code)
}

// buildMmvBinary compiles cmd/mmv once per test run.
func buildMmvBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping e2e build in -short mode")
	}
	buildOnce.Do(func() {
		_, file, _, _ := runtime.Caller(0)
		repoRoot := filepath.Join(filepath.Dir(file), "..", "..")
		buildDir, buildErr = os.MkdirTemp("", "mmv-e2e-")
		if buildErr != nil {
			return
		}
		name := "mmv"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		binPath = filepath.Join(buildDir, name)
		cmd := exec.Command("go", "build", "-o", binPath, "./cmd/mmv")
		cmd.Dir = repoRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("go build: %v\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatalf("build mmv: %v", buildErr)
	}
	return binPath
}

// newEnv creates a project directory holding doc as mindmap-data.json.
func newEnv(t *testing.T, doc string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mindmap-data.json"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// runMmv runs the binary in dir and returns stdout. Stderr is included in
// the failure message.
func runMmv(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(buildMmvBinary(t), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+dir, "XDG_CONFIG_HOME="+filepath.Join(dir, ".config"))
	var stderr []byte
	out, err := cmd.Output()
	if ee, ok := err.(*exec.ExitError); ok {
		stderr = ee.Stderr
	}
	if err != nil {
		return string(out), fmt.Errorf("%v: %s", err, stderr)
	}
	return string(out), nil
}
