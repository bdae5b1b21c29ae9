// Package project locates the project a working directory belongs to.
// The project root anchors config discovery and gives sessions a stable
// identity across subdirectories of the same repository.
package project

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Info identifies a project.
type Info struct {
	// ID is a stable short identifier derived from the root path.
	ID string `json:"id"`
	// Root is the top-level project directory.
	Root string `json:"root"`
	// VCS is "git" when the root carries a git checkout, otherwise "".
	VCS string `json:"vcs,omitempty"`
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Info)
)

// FromDirectory detects the project containing a directory. It walks up
// looking for a .git entry; directories outside any repository are their
// own root.
func FromDirectory(directory string) (*Info, error) {
	directory, err := filepath.Abs(directory)
	if err != nil {
		return nil, err
	}

	cacheMu.RLock()
	if info, ok := cache[directory]; ok {
		cacheMu.RUnlock()
		return info, nil
	}
	cacheMu.RUnlock()

	info := &Info{Root: directory}
	if root := findVCSRoot(directory); root != "" {
		info.Root = root
		info.VCS = "git"
	}
	info.ID = hashPath(info.Root)

	cacheMu.Lock()
	cache[directory] = info
	cacheMu.Unlock()

	return info, nil
}

// Root returns the project root for a directory, falling back to the
// directory itself when detection fails.
func Root(directory string) string {
	info, err := FromDirectory(directory)
	if err != nil {
		return directory
	}
	return info.Root
}

// ClearCache clears the detection cache. Useful for tests.
func ClearCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = make(map[string]*Info)
}

// hashPath derives a short stable ID from an absolute path.
func hashPath(path string) string {
	h := sha256.Sum256([]byte(path))
	return hex.EncodeToString(h[:])[:16]
}

// findVCSRoot walks up from start looking for a .git directory. A .git
// file (worktrees, submodules) counts as well.
func findVCSRoot(start string) string {
	current := start
	for {
		gitPath := filepath.Join(current, ".git")
		if fi, err := os.Stat(gitPath); err == nil {
			if fi.IsDir() {
				return current
			}
			// Worktree or submodule pointer file.
			if content, err := os.ReadFile(gitPath); err == nil &&
				strings.HasPrefix(strings.TrimSpace(string(content)), "gitdir: ") {
				return current
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}
