package annotate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// auditEntry is one NDJSON line describing a supervised job. Auditing is
// best-effort: a failure to write never affects the job result.
type auditEntry struct {
	TS          string   `json:"ts"`
	Genome      string   `json:"genome"`
	Inputs      []string `json:"inputs"`
	OutputDir   string   `json:"outputDir"`
	Status      string   `json:"status"`
	Exit        int      `json:"exit"`
	MS          int64    `json:"ms"`
	StdoutBytes int      `json:"stdoutBytes"`
	StderrBytes int      `json:"stderrBytes"`
}

func (r *Runner) audit(spec JobSpec, out *Outcome) {
	if r.auditDir == "" {
		return
	}
	entry := auditEntry{
		TS:          time.Now().UTC().Format(time.RFC3339Nano),
		Genome:      spec.GenomeBuild,
		Inputs:      spec.InputFiles,
		OutputDir:   spec.OutputDir,
		Status:      string(out.Status),
		Exit:        out.ExitCode,
		MS:          out.Duration.Milliseconds(),
		StdoutBytes: len(out.Stdout),
		StderrBytes: len(out.Stderr),
	}
	if err := appendAuditLine(r.auditDir, entry); err != nil {
		r.logger.Warn("job audit write failed", "error", err)
	}
}

// appendAuditLine writes one NDJSON line to <dir>/YYYYMMDD.log.
func appendAuditLine(dir string, entry auditEntry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, time.Now().UTC().Format("20060102")+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(b, '\n'))
	return err
}
