// Package report persists the run report (the ordered step audit trail)
// to a JSON file on disk so the outcome of the last run can be inspected
// after the process exits.
package report
