// Package bedfile implements the column-count heuristic used to classify BED
// input files before they are handed to the annotation pipeline.
package bedfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format identifies a BED file variant by its column count.
type Format string

const (
	BED3    Format = "bed3"
	BED6    Format = "bed6"
	BED12   Format = "bed12"
	Unknown Format = "unknown"
)

// String returns the upper-case display form (BED3, BED6, ...).
func (f Format) String() string {
	return strings.ToUpper(string(f))
}

// Detect classifies the file at path from its first data line. Comment lines
// (leading '#') and blank lines are skipped. A file with no data lines is
// Unknown, not an error.
func Detect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DetectReader(f), nil
}

// DetectReader classifies BED content from r using the same heuristic as
// Detect.
func DetectReader(r io.Reader) Format {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch n := len(strings.Split(line, "\t")); {
		case n >= 12:
			return BED12
		case n >= 6:
			return BED6
		case n >= 3:
			return BED3
		default:
			return Unknown
		}
	}
	return Unknown
}

// Preview returns up to maxLines raw lines from the head of the file, for
// inclusion in validation responses.
func Preview(path string, maxLines int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(lines) < maxLines {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return lines, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
