package provenance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceVersion_NotARepository(t *testing.T) {
	version, err := SourceVersion(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, version)
}

func TestSourceVersion_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	version, err := SourceVersion(dir)
	require.NoError(t, err)
	assert.Empty(t, version)
}

func TestSourceVersion_HeadCommit(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	input := filepath.Join(dir, "ast", "widget.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(input), 0755))
	require.NoError(t, os.WriteFile(input, []byte("format_version: 1.0.0\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("ast/widget.yaml")
	require.NoError(t, err)
	hash, err := wt.Commit("add ast", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	// The input file itself is inside the repository, not at its root
	version, err := SourceVersion(input)
	require.NoError(t, err)
	assert.Equal(t, hash.String()[:ShortHashLen], version)
}
