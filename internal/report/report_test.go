package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func writePlotPDF(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(0, 10, "fixture plot")
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("write pdf fixture: %v", err)
	}
}

func resultsDir(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, dir, "liver_annotated.tsv", "chrom\tstart\tend\n")
	writeFile(t, dir, "liver_summary.tsv", "annot.type\tn\ncpg_islands\t12\n")
	writePlotPDF(t, dir, "liver_distribution.pdf")
	return dir
}

func TestSummarizeGathersManifestAndHead(t *testing.T) {
	s, err := Summarize(resultsDir(t))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(s.Manifest.AnnotationFiles) != 1 || len(s.Manifest.SummaryFiles) != 1 || len(s.Manifest.PlotFiles) != 1 {
		t.Fatalf("manifest: %+v", s.Manifest)
	}
	if len(s.SummaryHead) == 0 || !strings.Contains(s.SummaryHead[0], "annot.type") {
		t.Fatalf("summary head: %v", s.SummaryHead)
	}
	pages, ok := s.PlotPages["liver_distribution.pdf"]
	if !ok || pages < 1 {
		t.Fatalf("pdf probe: %v", s.PlotPages)
	}
}

func TestSummarizeMissingDirectoryIsError(t *testing.T) {
	if _, err := Summarize(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing results directory")
	}
}

func TestSummarizeSkipsUnreadablePlots(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.pdf", "not a pdf at all")
	s, err := Summarize(dir)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if _, ok := s.PlotPages["broken.pdf"]; ok {
		t.Fatal("unparseable plot should be skipped, not reported")
	}
	if len(s.Manifest.PlotFiles) != 1 {
		t.Fatalf("the file is still classified as a plot: %+v", s.Manifest)
	}
}

func TestRenderMentionsCounts(t *testing.T) {
	s, err := Summarize(resultsDir(t))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	text := s.Render()
	for _, want := range []string{"Annotation files: 1", "Summary files: 1", "Plot files: 1", "annot.type"} {
		if !strings.Contains(text, want) {
			t.Fatalf("render missing %q:\n%s", want, text)
		}
	}
}

func TestWriteComparisonProducesPDF(t *testing.T) {
	a := resultsDir(t)
	b := resultsDir(t)
	out := filepath.Join(t.TempDir(), "reports", "comparison.pdf")

	if err := WriteComparison([]string{a, b}, out); err != nil {
		t.Fatalf("WriteComparison: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("report is not a PDF, starts with %q", data[:8])
	}
}

func TestWriteComparisonRejectsMissingDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "comparison.pdf")
	err := WriteComparison([]string{filepath.Join(t.TempDir(), "absent")}, out)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, statErr := os.Stat(out); statErr == nil {
		t.Fatal("no report should be written on failure")
	}
}

func TestWriteComparisonRejectsEmptyInput(t *testing.T) {
	if err := WriteComparison(nil, filepath.Join(t.TempDir(), "c.pdf")); err == nil {
		t.Fatal("expected error for empty directory list")
	}
}
