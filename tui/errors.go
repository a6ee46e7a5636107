package tui

// CancellationError marks an operation the user aborted from a TUI view.
// Callers treat it as a clean exit rather than a failure.
type CancellationError struct {
	Message string
}

func (e *CancellationError) Error() string {
	if e.Message == "" {
		return "cancelled"
	}
	return e.Message
}

func NewCancellationError(message string) *CancellationError {
	return &CancellationError{Message: message}
}
