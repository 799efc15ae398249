package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// KoanFilePrefix starts every koan file name
	KoanFilePrefix = "about_"
	// KoanFileSuffix ends every koan file name
	KoanFileSuffix = "_test.go"
)

// ErrNoKoans is returned when no koan is left to walk after discovery and filtering
var ErrNoKoans = errors.New("no koans found")

// Scanner scans for koan files in a directory
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all koan files in the given root directory
func (s *Scanner) Scan(root string) ([]string, error) {
	var koanFiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("koan path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("koan path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden and underscore directories, as the go tool does
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}

			if s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		if IsKoanFile(d.Name()) {
			koanFiles = append(koanFiles, path)
		}

		return nil
	})

	return koanFiles, err
}

// IsKoanFile reports whether a file name follows the about_*_test.go convention
func IsKoanFile(name string) bool {
	name = filepath.Base(name)
	return strings.HasPrefix(name, KoanFilePrefix) && strings.HasSuffix(name, KoanFileSuffix)
}

// TopicName returns the topic of a koan file, e.g. "about_strings"
func TopicName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), KoanFileSuffix)
}
