package acquire

// Status is the progress of one link as seen by a status consumer.
type Status string

const (
	// StatusPending means the link has not been tried yet.
	StatusPending Status = "Pending"
	// StatusDownloading means the attempt is in flight.
	StatusDownloading Status = "Downloading"
	// StatusCompleted means the demo was downloaded.
	StatusCompleted Status = "Completed"
	// StatusFailed means the attempt ended with a Reason.
	StatusFailed Status = "Failed"
	// StatusSkipped means the run stopped before the link was tried.
	StatusSkipped Status = "Skipped"
)

func (s Status) String() string {
	return string(s)
}

// IsFinished reports whether no further event will follow for the link.
func (s Status) IsFinished() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusSkipped
}

// State is a step of a single attempt.
type State int

const (
	StateIdle State = iota
	StateNavigating
	StateAwaitingDownloadTrigger
	StateWatching
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNavigating:
		return "navigating"
	case StateAwaitingDownloadTrigger:
		return "awaiting download trigger"
	case StateWatching:
		return "watching"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
