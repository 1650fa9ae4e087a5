// Package validation checks cleaned record sets against the schema and
// domain contracts before any graph is built. A failed report aborts the
// run; warnings are logged and the run continues.
package validation

import (
	"fmt"
	"strings"

	"github.com/dcastell/servicegraph/pkg/logging"
)

// Issue is a single validation finding.
type Issue struct {
	Category string
	Message  string
}

// Report accumulates validation findings. Errors fail the run, warnings
// do not.
type Report struct {
	Errors   []Issue
	Warnings []Issue
}

// AddError records a fatal finding.
func (r *Report) AddError(category, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Category: category, Message: fmt.Sprintf(format, args...)})
}

// AddWarning records a non-fatal finding.
func (r *Report) AddWarning(category, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Message: fmt.Sprintf(format, args...)})
}

// Passed reports whether the record set is fit for graph construction.
func (r *Report) Passed() bool {
	return len(r.Errors) == 0
}

// Merge folds another report into this one.
func (r *Report) Merge(other *Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Summary returns a short status line.
func (r *Report) Summary() string {
	status := "PASSED"
	if !r.Passed() {
		status = "FAILED"
	}
	return fmt.Sprintf("validation %s: %d errors, %d warnings", status, len(r.Errors), len(r.Warnings))
}

// Err returns an error describing all fatal findings, or nil if the report
// passed.
func (r *Report) Err() error {
	if r.Passed() {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, issue := range r.Errors {
		msgs = append(msgs, fmt.Sprintf("[%s] %s", issue.Category, issue.Message))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

// Log writes all findings to the logger.
func (r *Report) Log(logger logging.Logger) {
	logger.Info(r.Summary())
	for _, issue := range r.Errors {
		logger.Error("validation error",
			logging.String("category", issue.Category),
			logging.String("message", issue.Message))
	}
	for _, issue := range r.Warnings {
		logger.Warn("validation warning",
			logging.String("category", issue.Category),
			logging.String("message", issue.Message))
	}
}
