package interview

import "errors"

var (
	// ErrBusy is returned when a submission is already being processed.
	ErrBusy = errors.New("interview: a submission is already being processed")
	// ErrEmptyAnswer is returned for blank answers.
	ErrEmptyAnswer = errors.New("interview: answer is empty")
	// ErrNoFeedbackYet is returned by Advance before the current slot has feedback.
	ErrNoFeedbackYet = errors.New("interview: current question has no feedback yet")
	// ErrSessionComplete is returned by Advance on the last slot.
	ErrSessionComplete = errors.New("interview: session complete")
	// ErrCancelled is returned when the in-flight submission was superseded or cancelled.
	// Nothing is committed in that case.
	ErrCancelled = errors.New("interview: submission cancelled")
	// ErrInternal wraps unexpected failures recovered during a submission.
	ErrInternal = errors.New("interview: internal error")
	// ErrSlotOutOfRange is returned for writes outside the writable window.
	ErrSlotOutOfRange = errors.New("interview: slot index out of range")
	// ErrInvalidState is returned when restoring a malformed snapshot.
	ErrInvalidState = errors.New("interview: invalid session state")
)

// IsUserError reports whether err is an advisory the presentation layer should show as-is.
func IsUserError(err error) bool {
	return errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrEmptyAnswer) ||
		errors.Is(err, ErrNoFeedbackYet)
}
