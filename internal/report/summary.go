// Package report inspects completed annotation results: it summarizes a
// results directory for the caller and renders comparison reports across
// several runs.
package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/annomics/annomics-mcp/internal/annotate"
)

// summaryHeadLines bounds the preview taken from the first summary table.
const summaryHeadLines = 6

// DirSummary describes the contents of one results directory.
type DirSummary struct {
	Dir         string
	Manifest    annotate.Manifest
	SummaryHead []string
	// PlotPages maps PDF plot paths (relative to Dir) to their page count.
	// Plots that cannot be parsed are absent; probing is best-effort.
	PlotPages map[string]int
}

// Summarize scans dir and gathers a summary of the classified files. Unlike
// manifest scanning, a missing directory is an error here: the caller asked
// about specific prior results.
func Summarize(dir string) (*DirSummary, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("results directory not found: %s", dir)
	}

	s := &DirSummary{
		Dir:       dir,
		Manifest:  annotate.ScanOutputDir(dir),
		PlotPages: make(map[string]int),
	}

	if len(s.Manifest.SummaryFiles) > 0 {
		if head, err := readHead(filepath.Join(dir, s.Manifest.SummaryFiles[0]), summaryHeadLines); err == nil {
			s.SummaryHead = head
		}
	}

	for _, rel := range s.Manifest.PlotFiles {
		if strings.ToLower(filepath.Ext(rel)) != ".pdf" {
			continue
		}
		if pages, err := pdfPageCount(filepath.Join(dir, rel)); err == nil {
			s.PlotPages[rel] = pages
		}
	}
	return s, nil
}

func readHead(path string, maxLines int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(lines) < maxLines {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func pdfPageCount(path string) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.NumPage(), nil
}

// Render formats the summary as user-presentable text.
func (s *DirSummary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Annotation results summary\n\n")
	fmt.Fprintf(&b, "Directory: %s\n\n", s.Dir)
	fmt.Fprintf(&b, "Files found:\n")
	fmt.Fprintf(&b, "- Annotation files: %d\n", len(s.Manifest.AnnotationFiles))
	fmt.Fprintf(&b, "- Summary files: %d\n", len(s.Manifest.SummaryFiles))
	fmt.Fprintf(&b, "- Combined files: %d\n", len(s.Manifest.CombinedFiles))
	fmt.Fprintf(&b, "- Plot files: %d\n", len(s.Manifest.PlotFiles))

	if len(s.Manifest.SummaryFiles) > 0 {
		fmt.Fprintf(&b, "\nSummary tables:\n")
		for _, f := range s.Manifest.SummaryFiles {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if len(s.SummaryHead) > 0 {
		fmt.Fprintf(&b, "\nHead of %s:\n", s.Manifest.SummaryFiles[0])
		for _, line := range s.SummaryHead {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	if len(s.Manifest.PlotFiles) > 0 {
		fmt.Fprintf(&b, "\nVisualizations:\n")
		for _, f := range s.Manifest.PlotFiles {
			if pages, ok := s.PlotPages[f]; ok {
				fmt.Fprintf(&b, "- %s (%d page PDF)\n", f, pages)
			} else {
				fmt.Fprintf(&b, "- %s\n", f)
			}
		}
	}
	return b.String()
}
