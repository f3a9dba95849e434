package timer

import "errors"

var (
	// ErrAlreadyRunning: Start was called while a session is active.
	// The machine itself is the authority for the one-active-timer
	// rule; callers must stop or complete the current session first.
	ErrAlreadyRunning = errors.New("a timer is already running")

	// ErrNotRunning: Tick, Stop or ContinueExtended with no session.
	ErrNotRunning = errors.New("no timer is running")

	// ErrStopInFlight: a stop attempt is already reconciling. The
	// second caller must wait and retry; two concurrent attempts
	// would race on the project hours update.
	ErrStopInFlight = errors.New("a stop attempt is already in progress")
)

// StorageError wraps a storage collaborator failure. The session is
// always preserved when one of these is returned from Stop: tracked
// time is never discarded over a transient failure, and retrying the
// stop is safe.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }
