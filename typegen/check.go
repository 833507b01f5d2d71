package typegen

import (
	"bufio"
	"bytes"
	"os"

	"github.com/teranos/tlgen/errors"
)

// CheckResult holds the result of comparing fresh output with a file on disk
type CheckResult struct {
	Path     string
	UpToDate bool
	// Line is the first differing line (1-based), 0 when up to date
	Line     int
	Expected string
	Actual   string
}

// CompareFile compares generated bytes with the existing file at path.
// A missing file is reported as out of date rather than as an error.
func CompareFile(generated []byte, path string) (*CheckResult, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &CheckResult{Path: path, Line: 1, Expected: firstLine(generated)}, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	result := &CheckResult{Path: path}
	if bytes.Equal(generated, existing) {
		result.UpToDate = true
		return result, nil
	}

	result.Line, result.Expected, result.Actual = firstDifference(generated, existing)
	return result, nil
}

// Err returns ErrOutputMismatch with the location of the first difference,
// or nil when the file is up to date.
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrOutputMismatch, "%s differs at line %d", r.Path, r.Line),
		"run tlgen generate to refresh the output")
}

// firstDifference returns the first line where want and got differ.
func firstDifference(want, got []byte) (int, string, string) {
	wantLines := scanLines(want)
	gotLines := scanLines(got)

	for i := 0; i < len(wantLines) || i < len(gotLines); i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w != g || i >= len(wantLines) || i >= len(gotLines) {
			return i + 1, w, g
		}
	}
	// only line endings differ
	return max(len(wantLines), 1), "", ""
}

func scanLines(content []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func firstLine(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		return string(content[:i])
	}
	return string(content)
}
