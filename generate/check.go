package generate

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/cxxbind/errors"
)

// SourceVersionPrefix starts the provenance line of generated files. It
// changes whenever the input's commit does and is ignored by comparisons.
const SourceVersionPrefix = "// Source version:"

// CheckResult holds the result of comparing fresh output with committed output
type CheckResult struct {
	UpToDate bool
	// Differences lists files whose content differs, relative to the generated dir
	Differences []string
	// Missing lists generated files with no committed counterpart
	Missing []string
}

// CompareDirectories compares every file under generatedDir with the file
// at the same relative path under existingDir, ignoring source version lines.
func CompareDirectories(generatedDir, existingDir string) (*CheckResult, error) {
	result := &CheckResult{}

	if _, err := os.Stat(generatedDir); err != nil {
		return nil, errors.Wrapf(err, "generated directory %s", generatedDir)
	}

	err := filepath.Walk(generatedDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		rel, err := filepath.Rel(generatedDir, path)
		if err != nil {
			return err
		}

		existing := filepath.Join(existingDir, rel)
		if _, statErr := os.Stat(existing); os.IsNotExist(statErr) {
			result.Missing = append(result.Missing, rel)
			return nil
		}

		different, err := filesAreDifferent(path, existing)
		if err != nil {
			return err
		}
		if different {
			result.Differences = append(result.Differences, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to compare generated output")
	}

	sort.Strings(result.Differences)
	sort.Strings(result.Missing)
	result.UpToDate = len(result.Differences) == 0 && len(result.Missing) == 0
	return result, nil
}

// filesAreDifferent compares two files, ignoring source version lines
func filesAreDifferent(file1, file2 string) (bool, error) {
	content1, err := os.ReadFile(file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}
	content2, err := os.ReadFile(file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}

	lines1, err := filterMetadataLines(content1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to scan %s", file1)
	}
	lines2, err := filterMetadataLines(content2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to scan %s", file2)
	}
	return lines1 != lines2, nil
}

// filterMetadataLines removes source version lines from content
func filterMetadataLines(content []byte) (string, error) {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), SourceVersionPrefix) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return result.String(), nil
}
