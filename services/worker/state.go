package worker

import "time"

// Phase is a state of the extraction state machine
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseProcessing
	PhaseEnding
	// PhaseDone is entered after ENDING; no transition leaves it
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "INITIALIZING"
	case PhaseProcessing:
		return "PROCESSING"
	case PhaseEnding:
		return "ENDING"
	case PhaseDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// RunState is the state owned by a single run.
// Succeeded is only meaningful once Phase reaches ENDING.
type RunState struct {
	Phase          Phase
	IsFirstPass    bool
	Succeeded      bool
	LedgerPath     string
	ImagesDir      string
	ErrorImagesDir string
}

// RunReport summarizes a finished run
type RunReport struct {
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Succeeded      bool      `json:"succeeded"`
	PagesVisited   int       `json:"pages_visited"`
	RowsSeen       int       `json:"rows_seen"`
	RowsAccepted   int       `json:"rows_accepted"`
	RowsRejected   int       `json:"rows_rejected"`
	LedgerPath     string    `json:"ledger_path,omitempty"`
	ImagesDir      string    `json:"images_dir"`
	ErrorImagesDir string    `json:"error_images_dir"`
	ScreenshotPath string    `json:"screenshot_path,omitempty"`
	FailureKind    string    `json:"failure_kind,omitempty"`
	Failure        string    `json:"failure,omitempty"`
}

// StatusLine is the human readable outcome printed when the process ends
func (r RunReport) StatusLine() string {
	if r.Succeeded {
		return SuccessMessage
	}
	return FailureMessage
}

// ExitCode is 0 for a run that paginated to the end and 1 otherwise
func (r RunReport) ExitCode() int {
	if r.Succeeded {
		return 0
	}
	return 1
}
