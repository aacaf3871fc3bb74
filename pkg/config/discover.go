package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Find returns the nearest .mmv/config.yaml walking up from dir, falling back
// to the user config directory. It returns an fs.ErrNotExist error when
// neither exists.
func Find(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	if root, ok := findProjectRoot(dir); ok {
		candidate := filepath.Join(root, DirName, FileName)
		if isFile(candidate) {
			return candidate, nil
		}
	}
	if userDir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(userDir, "mmv", FileName)
		if isFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no %s found from %s: %w", FileName, dir, fs.ErrNotExist)
}

// DetectProjectRoot walks up from the current directory looking for .mmv/.
func DetectProjectRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findProjectRoot(dir)
}

// findProjectRoot walks up from dir looking for a .mmv/ directory. It stops
// at the filesystem root and does not climb above the home directory.
func findProjectRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()
	for {
		if info, err := os.Stat(filepath.Join(dir, DirName)); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// FindDataDocument walks up from dir looking for the default topic document,
// either beside a directory or inside its .mmv/.
func FindDataDocument(dir string) (string, bool) {
	home, _ := os.UserHomeDir()
	for {
		for _, candidate := range []string{
			filepath.Join(dir, DefaultDataFile),
			filepath.Join(dir, DirName, DefaultDataFile),
		} {
			if isFile(candidate) {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && dir == home) {
			break
		}
		dir = parent
	}
	return "", false
}

// ResolveDataPath picks the topic document: an explicit flag wins, then the
// config's data entry, then a discovered default document.
func ResolveDataPath(flag string, cfg Config, dir string) (string, error) {
	if flag != "" {
		return expandHome(flag), nil
	}
	if p := cfg.ResolveData(); p != "" {
		return p, nil
	}
	if p, ok := FindDataDocument(dir); ok {
		return p, nil
	}
	return "", fmt.Errorf("no topic document: pass --data or create %s", DefaultDataFile)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
