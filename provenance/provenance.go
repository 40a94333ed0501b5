// Package provenance identifies the revision of the input a generation run
// was produced from. The commit is stamped into every generated file so the
// output can be traced back to the headers it came from.
package provenance

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

// ShortHashLen is the number of hex digits kept in a source version
const ShortHashLen = 12

// SourceVersion returns the abbreviated HEAD commit of the git repository
// containing path. Paths outside a repository return "" without error so
// generation still works on plain directories.
func SourceVersion(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}
	if fi, statErr := os.Stat(abs); statErr == nil && !fi.IsDir() {
		abs = filepath.Dir(abs)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		logger.Debugw("Input is not under version control", logger.FieldFile, abs)
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to open repository for %s", abs)
	}

	head, err := repo.Head()
	if err != nil {
		// An empty repository has no HEAD yet
		logger.Debugw("Repository has no HEAD", logger.FieldFile, abs, logger.FieldError, err)
		return "", nil
	}

	hash := head.Hash().String()
	if len(hash) > ShortHashLen {
		hash = hash[:ShortHashLen]
	}
	return hash, nil
}
