// Package health checks a gitjournal installation: the configuration, the
// state directory, the registry and every tracked repository. The results
// are used by the 'gitjournal doctor' command.
package health

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmragsdale/git-journal/internal/config"
	"github.com/jmragsdale/git-journal/internal/git"
	"github.com/jmragsdale/git-journal/internal/journal"
	"github.com/jmragsdale/git-journal/internal/registry"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	// RepoChecks has one result per tracked repository, in name order.
	RepoChecks []CheckResult
	Passed     bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// RunHealthChecks checks the configuration loaded with opts, the state
// directory and the registry, then each tracked repository.
func RunHealthChecks(opts config.LoadOptions) *HealthReport {
	report := &HealthReport{Passed: true}

	cfgCheck, cfg := CheckConfig(opts)
	report.add(cfgCheck)

	home := ""
	if cfg != nil {
		home = cfg.Home
	} else if dir, err := config.HomeDir(); err == nil {
		home = dir
	}

	report.add(CheckHomeDir(home))

	regCheck, snap := CheckRegistry(registry.NewStore(home))
	report.add(regCheck)

	for _, e := range snap.Entries() {
		c := CheckRepository(e)
		report.RepoChecks = append(report.RepoChecks, c)
		if !c.Passed {
			report.Passed = false
		}
	}
	return report
}

// CheckConfig loads and validates the configuration. The loaded config is
// nil when the check fails.
func CheckConfig(opts config.LoadOptions) (CheckResult, *config.Configuration) {
	opts.SkipWarnings = true
	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		return CheckResult{
			Name:    "Configuration",
			Passed:  false,
			Message: err.Error(),
		}, nil
	}
	return CheckResult{Name: "Configuration", Passed: true, Message: "valid"}, cfg
}

// CheckHomeDir verifies that the state directory exists, or can be
// created, and is writable.
func CheckHomeDir(home string) CheckResult {
	name := "State directory"
	if home == "" {
		return CheckResult{Name: name, Passed: false, Message: "cannot determine home directory"}
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return CheckResult{Name: name, Passed: false, Message: fmt.Sprintf("cannot create %s: %v", home, err)}
	}

	scratch, err := os.CreateTemp(home, ".doctor-*")
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: fmt.Sprintf("%s is not writable: %v", home, err)}
	}
	scratch.Close()
	os.Remove(scratch.Name())

	return CheckResult{Name: name, Passed: true, Message: home}
}

// CheckRegistry loads the registry. The snapshot is empty when the check
// fails.
func CheckRegistry(store *registry.Store) (CheckResult, registry.Snapshot) {
	snap, err := store.Load()
	if err != nil {
		return CheckResult{
			Name:    "Registry",
			Passed:  false,
			Message: fmt.Sprintf("%s: %v", store.Path(), err),
		}, registry.Snapshot{}
	}
	return CheckResult{
		Name:    "Registry",
		Passed:  true,
		Message: fmt.Sprintf("%d tracked repositories", snap.Len()),
	}, snap
}

// CheckRepository verifies that a tracked repository still exists, is a
// git repository and has the gitjournal post-commit hook when the
// registry says it was installed.
func CheckRepository(e registry.Entry) CheckResult {
	result := CheckResult{Name: e.Name}

	switch {
	case !e.Exists():
		result.Message = "path not found: " + e.Path
	case !git.IsRepository(e.Path):
		result.Message = "not a git repository: " + e.Path
	default:
		present, err := journal.HookPresent(e.Path)
		switch {
		case err != nil:
			result.Message = err.Error()
		case e.HookInstalled && !present:
			result.Message = "post-commit hook missing; run 'gitjournal hook install --path " + e.Path + "'"
		case !present:
			result.Passed = true
			result.Message = "ok (no hook)"
		default:
			result.Passed = true
			result.Message = "ok"
		}
	}
	return result
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder

	for _, check := range report.Checks {
		writeCheck(&b, "", check)
	}

	if len(report.RepoChecks) > 0 {
		b.WriteString("\nRepositories:\n")
		for _, check := range report.RepoChecks {
			writeCheck(&b, "  ", check)
		}
	}

	return b.String()
}

func writeCheck(b *strings.Builder, indent string, check CheckResult) {
	mark := "✓"
	if !check.Passed {
		mark = "✗"
	}
	fmt.Fprintf(b, "%s%s %s: %s\n", indent, mark, check.Name, check.Message)
}
