package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"simple path", "/Users/fukuyamaken/ghq/github.com/kenfdev/cc-tail", "-Users-fukuyamaken-ghq-github-com-kenfdev-cc-tail"},
		{"dots", "/home/user/my.project/src", "-home-user-my-project-src"},
		{"spaces", "/home/user/my project/src", "-home-user-my-project-src"},
		{"tilde", "~/my-project", "--my-project"},
		{"hyphens preserved", "/home/user/my-project", "-home-user-my-project"},
		{"root", "/", "-"},
		{"trailing slash", "/foo/bar/", "-foo-bar"},
		{"mixed", "/Users/john doe/my.project/~backup", "-Users-john-doe-my-project--backup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapePath(tt.path))
		})
	}
}

func setupBase(t *testing.T, projectDirs ...string) string {
	t.Helper()
	base := t.TempDir()
	for _, dir := range projectDirs {
		require.NoError(t, os.MkdirAll(filepath.Join(base, dir), 0o755))
	}
	return base
}

func noGit(string) string { return "" }

func TestResolve(t *testing.T) {
	t.Run("explicit override found", func(t *testing.T) {
		base := setupBase(t, "-foo-bar")
		r := NewResolverAt(base, noGit)

		got, err := r.Resolve("/some/other/cwd", "/foo/bar")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "-foo-bar"), got)
	})

	t.Run("explicit override missing is fatal", func(t *testing.T) {
		base := setupBase(t)
		r := NewResolverAt(base, noGit)

		_, err := r.Resolve("/some/cwd", "/nonexistent/path")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.NotEmpty(t, nf.SearchedPaths)
	})

	t.Run("exact cwd match", func(t *testing.T) {
		base := setupBase(t, "-foo-bar")
		r := NewResolverAt(base, noGit)

		got, err := r.Resolve("/foo/bar", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "-foo-bar"), got)
	})

	t.Run("parent walk finds ancestor", func(t *testing.T) {
		base := setupBase(t, "-foo-bar")
		r := NewResolverAt(base, noGit)

		got, err := r.Resolve("/foo/bar/baz/qux", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "-foo-bar"), got)
	})

	t.Run("most specific ancestor wins", func(t *testing.T) {
		base := setupBase(t, "-foo", "-foo-bar")
		r := NewResolverAt(base, noGit)

		got, err := r.Resolve("/foo/bar/baz", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "-foo-bar"), got)
	})

	t.Run("git root fallback", func(t *testing.T) {
		base := setupBase(t, "-git-repo-root")
		r := NewResolverAt(base, func(string) string { return "/git/repo/root" })

		got, err := r.Resolve("/some/random/path", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "-git-repo-root"), got)
	})

	t.Run("parent walk beats git fallback", func(t *testing.T) {
		base := setupBase(t, "-parent", "-git-root")
		r := NewResolverAt(base, func(string) string { return "/git/root" })

		got, err := r.Resolve("/parent/child/grandchild", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "-parent"), got)
	})

	t.Run("nothing found lists searched paths", func(t *testing.T) {
		base := setupBase(t)
		r := NewResolverAt(base, noGit)

		_, err := r.Resolve("/no/match/anywhere", "")
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.NotEmpty(t, nf.SearchedPaths)
		assert.Contains(t, err.Error(), "--project")
	})

	t.Run("missing base directory", func(t *testing.T) {
		r := NewResolverAt(filepath.Join(t.TempDir(), "nonexistent"), noGit)
		_, err := r.Resolve("/foo/bar", "")
		require.Error(t, err)
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "myproj", DisplayName("/base/-home-user-myproj"))
	assert.Equal(t, "plain", DisplayName("/base/plain"))
}
