package upgrader

// State is a stage of a single upgrade run.
type State int

const (
	// StateInit is the state before any step ran.
	StateInit State = iota
	// StateValidated means the installation and the new archive were found.
	StateValidated
	// StateStopped means the application was stopped.
	StateStopped
	// StateArchived means the pre-upgrade backup was written.
	StateArchived
	// StateExtracted means the new version was unpacked over the installation.
	StateExtracted
	// StateStarted means the application was started again.
	StateStarted
	// StateDone is the terminal success state.
	StateDone
	// StateFailed is the terminal failure state.
	StateFailed
)

// String returns the upper-case state name used in logs.
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateValidated:
		return "VALIDATED"
	case StateStopped:
		return "STOPPED"
	case StateArchived:
		return "ARCHIVED"
	case StateExtracted:
		return "EXTRACTED"
	case StateStarted:
		return "STARTED"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
