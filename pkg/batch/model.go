package batch

import "time"

// Action selects what a run does with each mailbox in the identity list.
type Action string

const (
	// ActionBackup reads every mailbox's auto-reply configuration into a report.
	ActionBackup Action = "Backup"
	// ActionSetOOF applies one collected configuration to every mailbox.
	ActionSetOOF Action = "SetOOF"
)

const (
	statusSuccess = "Success"
	statusFailure = "Failure"

	// notApplicable marks schedule columns of results whose state carries no
	// window. Kept explicit so an empty cell always means a failed row.
	notApplicable = "N/A"
)

// BackupRecord is one mailbox's captured auto-reply configuration. A failed
// read leaves the configuration columns empty and carries the error in
// Detail.
type BackupRecord struct {
	Identity         string
	State            string
	StartTime        string
	EndTime          string
	InternalMessage  string
	ExternalMessage  string
	ExternalAudience string
	CapturedAt       string
	Detail           string
}

func (r BackupRecord) toSlice() []string {
	return []string{
		r.Identity,
		r.State,
		r.StartTime,
		r.EndTime,
		r.InternalMessage,
		r.ExternalMessage,
		r.ExternalAudience,
		r.CapturedAt,
		r.Detail,
	}
}

// DeployResult is the outcome of pushing the run's configuration to one
// mailbox.
type DeployResult struct {
	Identity         string
	State            string
	StartTime        string
	EndTime          string
	ExternalAudience string
	Status           string
	Detail           string
}

func (r DeployResult) toSlice() []string {
	return []string{
		r.Identity,
		r.State,
		r.StartTime,
		r.EndTime,
		r.ExternalAudience,
		r.Status,
		r.Detail,
	}
}

// RunOutput accumulates one run's rows and tallies. Exactly one of Backups
// and Deploys is populated, matching Action.
type RunOutput struct {
	Action    Action
	Started   time.Time
	Backups   []BackupRecord
	Deploys   []DeployResult
	Succeeded int
	Failed    int
}

// Total is the number of identities processed.
func (o RunOutput) Total() int {
	return o.Succeeded + o.Failed
}
