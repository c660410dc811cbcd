package annotate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// envCheckTimeout bounds the Rscript --version probe at startup.
const envCheckTimeout = 10 * time.Second

// Status classifies how a supervised job ended.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusFailed       Status = "failed"
	StatusTimedOut     Status = "timed-out"
	StatusLaunchFailed Status = "launch-failed"
)

// Outcome is the structured result of supervising one pipeline execution.
// Constructed exactly once per job.
type Outcome struct {
	Status    Status
	ExitCode  int
	Stdout    string
	Stderr    string
	OutputDir string
	Duration  time.Duration
}

// Runner supervises annotation jobs. It holds no per-job state, so a single
// Runner is safe for concurrent use; each Run launches an isolated process
// with its own deadline. Construct it with NewRunner so the R environment is
// verified before the first job.
type Runner struct {
	rscriptBin string
	scriptPath string
	workDir    string
	auditDir   string
	logger     *slog.Logger
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithRscriptBin overrides the Rscript executable name or path.
func WithRscriptBin(bin string) RunnerOption {
	return func(r *Runner) { r.rscriptBin = bin }
}

// WithAuditDir enables best-effort NDJSON job auditing under dir.
func WithAuditDir(dir string) RunnerOption {
	return func(r *Runner) { r.auditDir = dir }
}

// WithLogger sets the structured logger; the default is slog.Default.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner verifies that scriptPath exists and that Rscript is runnable,
// then returns a Runner whose child processes have their working directory
// pinned to the script's repository root (two levels above the script), so
// relative output paths are stable regardless of the caller's cwd.
func NewRunner(scriptPath string, opts ...RunnerOption) (*Runner, error) {
	abs, err := filepath.Abs(scriptPath)
	if err != nil {
		return nil, &EnvironmentError{Msg: fmt.Sprintf("resolve script path %s", scriptPath), Err: err}
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, &EnvironmentError{Msg: fmt.Sprintf("annotation script not found at %s", abs), Err: err}
	}

	r := &Runner{
		rscriptBin: "Rscript",
		scriptPath: abs,
		workDir:    filepath.Dir(filepath.Dir(abs)),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.checkEnvironment(); err != nil {
		return nil, err
	}
	return r, nil
}

// checkEnvironment probes `Rscript --version`; failure means the session must
// not accept annotation requests.
func (r *Runner) checkEnvironment() error {
	ctx, cancel := context.WithTimeout(context.Background(), envCheckTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.rscriptBin, "--version")
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &EnvironmentError{Msg: fmt.Sprintf("%s not found or not working", r.rscriptBin), Err: err}
	}
	r.logger.Info("R environment check passed", "rscript", r.rscriptBin, "version", string(bytes.TrimSpace(stderr.Bytes())))
	return nil
}

// ScriptPath returns the resolved annotation script path.
func (r *Runner) ScriptPath() string { return r.scriptPath }

// Run launches one pipeline process for spec and waits for it to exit or for
// the spec's deadline to pass. The returned Outcome is always populated; err
// is nil only on a clean exit and otherwise carries one of the typed failure
// kinds (*TimeoutError, *ProcessError, *LaunchError). Exactly one attempt is
// made; resubmission policy belongs to the caller.
func (r *Runner) Run(ctx context.Context, spec JobSpec) (*Outcome, error) {
	start := time.Now()
	argv := append([]string{r.scriptPath}, spec.CommandArgs()...)

	runCtx, cancel := context.WithTimeout(ctx, spec.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, r.rscriptBin, argv...)
	cmd.Dir = r.workDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Info("launching annotation job", "spec", spec.String(), "argv", argv)
	err := cmd.Run()

	out := &Outcome{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		OutputDir: spec.OutputDir,
		Duration:  time.Since(start),
	}

	switch {
	case err == nil:
		out.Status = StatusSuccess
	case runCtx.Err() == context.DeadlineExceeded:
		out.Status = StatusTimedOut
		out.ExitCode = -1
		err = &TimeoutError{Timeout: spec.Timeout}
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.Status = StatusFailed
			out.ExitCode = exitErr.ExitCode()
			err = &ProcessError{ExitCode: out.ExitCode, Stderr: out.Stderr}
		} else {
			out.Status = StatusLaunchFailed
			out.ExitCode = -1
			err = &LaunchError{Err: err}
		}
	}

	r.audit(spec, out)
	r.logger.Info("annotation job finished",
		"status", string(out.Status), "exit", out.ExitCode, "duration", out.Duration)
	return out, err
}
