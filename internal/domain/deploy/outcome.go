package deploy

import "time"

// StepStatus is the terminal status of a single pipeline step.
type StepStatus string

const (
	// StepSuccess means the step completed.
	StepSuccess StepStatus = "success"
	// StepSkipped means the step was not needed for this run.
	StepSkipped StepStatus = "skipped"
	// StepFailed means the step reported an error. Whether that error is
	// fatal is decided by the pipeline, not the step.
	StepFailed StepStatus = "failed"
)

// StepOutcome is one entry of the run-scoped audit trail. One outcome is
// recorded per step, in execution order.
type StepOutcome struct {
	// Step names the pipeline step.
	Step string `json:"step"`
	// Status is the terminal status of the step.
	Status StepStatus `json:"status"`
	// Detail carries a short human-readable explanation. It never
	// contains secret material.
	Detail string `json:"detail,omitempty"`
}

// RunStatus is the terminal status of a whole pipeline run.
type RunStatus string

const (
	// RunDone means every step succeeded or was legitimately skipped.
	RunDone RunStatus = "done"
	// RunDoneWithWarnings means the run completed but at least one
	// non-fatal step failed.
	RunDoneWithWarnings RunStatus = "done-with-warnings"
	// RunFailed means a fatal step aborted the run.
	RunFailed RunStatus = "failed"
)

// RunReport aggregates everything a run produced. It is the payload of
// the persisted audit trail.
type RunReport struct {
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Status is the terminal run status.
	Status RunStatus `json:"status"`
	// LocalVersion and RemoteVersion are the versions the decision was
	// based on, rendered as strings.
	LocalVersion  string `json:"local_version"`
	RemoteVersion string `json:"remote_version,omitempty"`
	// Decision is the install decision taken for this run.
	Decision string `json:"decision"`
	// Outcomes is the ordered audit trail, one entry per executed step.
	Outcomes []StepOutcome `json:"outcomes"`
}

// HasWarnings reports whether any recorded step failed.
func (r *RunReport) HasWarnings() bool {
	for _, o := range r.Outcomes {
		if o.Status == StepFailed {
			return true
		}
	}

	return false
}
