package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Aman-CERP/vaultsearch/internal/logging"
	"github.com/Aman-CERP/vaultsearch/internal/output"
)

// Status is the outcome of one check.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Summary values for a Report.
const (
	SummaryReady       = "ready"
	SummaryWithWarning = "ready_with_warnings"
	SummaryFailed      = "failed"
)

// Result is the outcome of one named check. A Required check that fails
// makes the vault unusable.
type Result struct {
	Name     string `json:"name"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
	Details  string `json:"details,omitempty"`
	Required bool   `json:"required"`
}

// Critical reports whether r is a failed required check.
func (r Result) Critical() bool {
	return r.Required && r.Status == StatusFail
}

// Report holds every check run against one vault.
type Report struct {
	Vault   string   `json:"vault"`
	Summary string   `json:"status"`
	Checks  []Result `json:"checks"`
}

// Failed reports whether any required check failed.
func (r *Report) Failed() bool {
	for _, c := range r.Checks {
		if c.Critical() {
			return true
		}
	}
	return false
}

// Problems splits the non-passing checks into errors and warnings. A failed
// optional check counts as a warning.
func (r *Report) Problems() (errs, warnings []Result) {
	for _, c := range r.Checks {
		switch {
		case c.Critical():
			errs = append(errs, c)
		case c.Status != StatusPass:
			warnings = append(warnings, c)
		}
	}
	return errs, warnings
}

func (r *Report) summarize() string {
	errs, warnings := r.Problems()
	switch {
	case len(errs) > 0:
		return SummaryFailed
	case len(warnings) > 0:
		return SummaryWithWarning
	default:
		return SummaryReady
	}
}

// WriteText renders the report as status lines. Details are shown only
// when verbose.
func (r *Report) WriteText(w *output.Writer, verbose bool) {
	w.Line("", "Vault: %s", r.Vault)
	w.Blank()

	for _, c := range r.Checks {
		switch {
		case c.Status == StatusPass:
			w.Success("%-17s %s", c.Name, c.Message)
		case c.Critical():
			w.Error("%-17s %s", c.Name, c.Message)
		default:
			w.Warning("%-17s %s", c.Name, c.Message)
		}
		if verbose && c.Details != "" {
			w.Line("", "   %s", c.Details)
		}
	}

	errs, warnings := r.Problems()
	w.Blank()
	w.Line("", "Status: %s (%s, %s)", r.Summary,
		plural(len(errs), "error"), plural(len(warnings), "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Checker runs vault diagnostics.
type Checker struct {
	logDir string
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogDir overrides the log directory checked for write access.
func WithLogDir(dir string) Option {
	return func(c *Checker) {
		c.logDir = dir
	}
}

// New creates a Checker. The log directory defaults to the one the logging
// package writes to.
func New(opts ...Option) *Checker {
	c := &Checker{logDir: logging.DefaultLogDir()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunAll checks vault. The walk-based checks need a readable vault and a
// valid configuration, so they are skipped when either fails or ctx is done.
func (c *Checker) RunAll(ctx context.Context, vault string) *Report {
	rep := &Report{Vault: vault}

	vaultResult := c.CheckVault(vault)
	configResult, cfg := c.CheckConfig(vault)
	rep.Checks = append(rep.Checks, vaultResult, configResult)

	if vaultResult.Status != StatusFail && cfg != nil && ctx.Err() == nil {
		rep.Checks = append(rep.Checks, c.CheckVaultSize(vault, cfg), c.CheckIgnoreFiles(vault))
	}
	rep.Checks = append(rep.Checks, c.CheckLogDir(), c.CheckFileDescriptors())

	rep.Summary = rep.summarize()
	return rep
}

// CheckLogDir checks that the log directory can be created and written.
// Failure only warns: searching works without logs.
func (c *Checker) CheckLogDir() Result {
	res := Result{Name: "log_dir", Message: c.logDir, Status: StatusPass}

	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		res.Status = StatusWarn
		res.Message = fmt.Sprintf("cannot create %s: %v", c.logDir, err)
		res.Details = "serve and --debug will not be able to log"
		return res
	}

	tmp, err := os.CreateTemp(c.logDir, ".doctor-*")
	if err != nil {
		res.Status = StatusWarn
		res.Message = fmt.Sprintf("permission denied: %v", err)
		res.Details = "Set " + logging.LogDirEnv + " to a writable directory"
		return res
	}
	name := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(filepath.Clean(name))
	return res
}
