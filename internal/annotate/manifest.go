package annotate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Manifest partitions the files a job left in its output directory into four
// disjoint categories. Paths are relative to the scanned root, in walk order
// (lexical, so deterministic for a fixed filesystem state).
type Manifest struct {
	AnnotationFiles []string `json:"annotation_files"`
	SummaryFiles    []string `json:"summary_files"`
	CombinedFiles   []string `json:"combined_files"`
	PlotFiles       []string `json:"plot_files"`
}

// Total returns the number of classified files across all categories.
func (m Manifest) Total() int {
	return len(m.AnnotationFiles) + len(m.SummaryFiles) + len(m.CombinedFiles) + len(m.PlotFiles)
}

// ScanOutputDir walks dir recursively and classifies every recognized file:
// a .tsv whose name contains "summary" is a summary file, one containing
// "combined" is a combined file, any other .tsv is an annotation file, and
// .png/.pdf/.svg are plot files. Unrecognized extensions are ignored. A
// missing directory yields an empty manifest, not an error: the pipeline may
// create its output directory lazily. Unreadable entries are skipped.
func ScanOutputDir(dir string) Manifest {
	var m Manifest
	if _, err := os.Stat(dir); err != nil {
		return m
	}

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable entries rather than aborting the scan.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		name := d.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".tsv":
			switch {
			case strings.Contains(name, "summary"):
				m.SummaryFiles = append(m.SummaryFiles, rel)
			case strings.Contains(name, "combined"):
				m.CombinedFiles = append(m.CombinedFiles, rel)
			default:
				m.AnnotationFiles = append(m.AnnotationFiles, rel)
			}
		case ".png", ".pdf", ".svg":
			m.PlotFiles = append(m.PlotFiles, rel)
		}
		return nil
	})
	return m
}
