package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// WriteComparison renders a PDF comparing the manifests of several results
// directories and writes it to outPath. Every directory must exist; a
// missing one fails the whole report rather than silently comparing less
// than the caller asked for.
func WriteComparison(dirs []string, outPath string) error {
	if len(dirs) == 0 {
		return fmt.Errorf("no results directories given")
	}

	summaries := make([]*DirSummary, 0, len(dirs))
	for _, dir := range dirs {
		s, err := Summarize(dir)
		if err != nil {
			return err
		}
		summaries = append(summaries, s)
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "Annotation comparison report")
	doc.Ln(14)

	for _, s := range summaries {
		doc.SetFont("Helvetica", "B", 12)
		doc.Cell(0, 8, s.Dir)
		doc.Ln(8)

		doc.SetFont("Helvetica", "", 10)
		rows := []string{
			fmt.Sprintf("Annotation files: %d", len(s.Manifest.AnnotationFiles)),
			fmt.Sprintf("Summary files: %d", len(s.Manifest.SummaryFiles)),
			fmt.Sprintf("Combined files: %d", len(s.Manifest.CombinedFiles)),
			fmt.Sprintf("Plot files: %d", len(s.Manifest.PlotFiles)),
		}
		for _, row := range rows {
			doc.Cell(0, 6, row)
			doc.Ln(6)
		}
		doc.Ln(4)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write comparison report: %w", err)
	}
	return nil
}
