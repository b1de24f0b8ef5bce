// Package backfill holds per-item outcomes and the aggregate report for the
// embedding backfill batch.
package backfill

// ItemStatus is the processing outcome of a single backfill candidate.
type ItemStatus string

// Backfill item status values.
const (
	StatusUpdated ItemStatus = "updated"
	StatusFailed  ItemStatus = "failed"
)

// Outcome is the result of processing one candidate task.
type Outcome struct {
	taskID string
	status ItemStatus
	err    error
}

// NewUpdated creates a successful outcome.
func NewUpdated(taskID string) Outcome { return Outcome{taskID: taskID, status: StatusUpdated} }

// NewFailed creates a failed outcome. The batch continues regardless.
func NewFailed(taskID string, err error) Outcome {
	return Outcome{taskID: taskID, status: StatusFailed, err: err}
}

// TaskID returns the candidate task identifier.
func (o Outcome) TaskID() string { return o.taskID }

// Status returns the processing outcome.
func (o Outcome) Status() ItemStatus { return o.status }

// Err returns the failure cause, if any.
func (o Outcome) Err() error { return o.err }

// Report aggregates a backfill run. Total counts every candidate considered,
// so Updated+Failed == Total and a partial failure still yields a report.
type Report struct {
	Updated int
	Failed  int
	Total   int
}

// Reduce folds per-item outcomes into a Report.
func Reduce(outcomes []Outcome) Report {
	r := Report{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.status == StatusUpdated {
			r.Updated++
		} else {
			r.Failed++
		}
	}
	return r
}
