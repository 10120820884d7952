// Package project resolves a working directory to its Claude Code log
// directory under ~/.claude/projects/.
//
// Claude Code escapes the project's absolute path into a single directory
// name (separators and a few special characters become hyphens). Resolution
// tries, in order: an explicit override, the exact working directory, each
// ancestor directory (most specific match wins), and finally the git
// repository root.
package project

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// NotFoundError reports that no project directory matched, listing every
// candidate that was checked.
type NotFoundError struct {
	SearchedPaths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(
		"no matching project directory found under ~/.claude/projects/ (searched %v); use --project to specify the project path explicitly",
		e.SearchedPaths)
}

// GitRootFunc returns the git repository root for a directory, or "" when
// there is none. Injected so tests avoid invoking real git.
type GitRootFunc func(cwd string) string

// Resolver maps working directories onto escaped project directories.
type Resolver struct {
	base    string
	gitRoot GitRootFunc
}

// NewResolver creates a Resolver rooted at ~/.claude/projects/.
func NewResolver() (*Resolver, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	return &Resolver{
		base:    filepath.Join(home, ".claude", "projects"),
		gitRoot: gitToplevel,
	}, nil
}

// NewResolverAt creates a Resolver with an explicit base directory and git
// lookup, for tests.
func NewResolverAt(base string, gitRoot GitRootFunc) *Resolver {
	if gitRoot == nil {
		gitRoot = func(string) string { return "" }
	}
	return &Resolver{base: base, gitRoot: gitRoot}
}

// Base returns the projects base directory.
func (r *Resolver) Base() string { return r.base }

// Resolve finds the project directory for cwd.
//
// Strategy, in priority order:
//  1. explicitProject override: escape and check; missing is fatal.
//  2. Exact cwd match.
//  3. Parent walk: every ancestor is escaped and checked; the deepest
//     (most specific) existing match wins.
//  4. Git root fallback.
//
// Returns a *NotFoundError listing all searched candidates on failure.
func (r *Resolver) Resolve(cwd, explicitProject string) (string, error) {
	if fi, err := os.Stat(r.base); err != nil || !fi.IsDir() {
		return "", &NotFoundError{SearchedPaths: []string{r.base}}
	}

	var searched []string

	if explicitProject != "" {
		escaped := EscapePath(canonicalize(explicitProject))
		candidate := filepath.Join(r.base, escaped)
		searched = append(searched, candidate)
		if isDir(candidate) {
			return candidate, nil
		}
		return "", &NotFoundError{SearchedPaths: searched}
	}

	canonical := canonicalize(cwd)
	candidate := filepath.Join(r.base, EscapePath(canonical))
	searched = append(searched, candidate)
	if isDir(candidate) {
		return candidate, nil
	}

	// Parent walk: collect matches; the deepest ancestor wins.
	var best string
	bestDepth := 0
	for dir := filepath.Dir(canonical); ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(r.base, EscapePath(dir))
		searched = append(searched, candidate)
		if isDir(candidate) {
			depth := strings.Count(dir, string(filepath.Separator))
			if best == "" || depth > bestDepth {
				best, bestDepth = candidate, depth
			}
		}
		if dir == filepath.Dir(dir) {
			break
		}
	}
	if best != "" {
		return best, nil
	}

	if root := r.gitRoot(cwd); root != "" {
		candidate := filepath.Join(r.base, EscapePath(canonicalize(root)))
		searched = append(searched, candidate)
		if isDir(candidate) {
			return candidate, nil
		}
	}

	return "", &NotFoundError{SearchedPaths: searched}
}

// EscapePath converts a filesystem path into the directory-name format used
// under ~/.claude/projects/: '/', '.', ' ' and '~' each become '-'.
func EscapePath(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		trimmed = path
	}
	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		switch r {
		case '/', '.', ' ', '~':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DisplayName derives a short project name from a resolved project path:
// the last hyphen-separated component of the escaped directory name.
func DisplayName(projectDir string) string {
	name := filepath.Base(projectDir)
	if idx := strings.LastIndex(name, "-"); idx >= 0 && idx+1 < len(name) {
		return name[idx+1:]
	}
	return name
}

func canonicalize(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// gitToplevel runs `git rev-parse --show-toplevel`. A failing or missing
// git is treated as "no git root", never as a fatal error.
func gitToplevel(cwd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
