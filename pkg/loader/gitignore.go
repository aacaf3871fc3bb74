package loader

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// StateDir is the per-project directory holding config and the TUI log.
const StateDir = ".mmv"

// EnsureStateDirIgnored lists .mmv/ in projectDir's .gitignore when projectDir
// is a git work tree. It creates the file if needed, keeps existing content,
// and is a no-op when the entry is already covered.
func EnsureStateDirIgnored(projectDir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	if _, err := os.Stat(filepath.Join(projectDir, ".git")); err != nil {
		return nil
	}

	path := filepath.Join(projectDir, ".gitignore")
	present, err := stateDirIgnored(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if present {
		return nil
	}
	return appendToGitignore(path, StateDir+"/")
}

func stateDirIgnored(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if coversStateDir(line) {
			return true, nil
		}
	}
	return false, scanner.Err()
}

// coversStateDir reports whether a .gitignore line ignores the whole state
// directory. A leading slash anchors to the repo root and is ignored here.
func coversStateDir(line string) bool {
	switch strings.TrimPrefix(line, "/") {
	case StateDir, StateDir + "/", StateDir + "/*", StateDir + "/**", StateDir + "/**/*":
		return true
	}
	return false
}

func appendToGitignore(path, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) > 0 {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n"
	}
	toWrite += "# mmv local config and logs\n" + pattern + "\n"
	_, err = file.WriteString(toWrite)
	return err
}
