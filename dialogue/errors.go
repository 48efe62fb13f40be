package dialogue

import "errors"

// ErrInvalidDialogueMessage is returned when a message fails the belonging,
// basic, additional, or protocol-specific validation stage. The stage's
// reason string is carried by the *InvalidMessageError that wraps it.
var ErrInvalidDialogueMessage = errors.New("dialogue: invalid dialogue message")

// ErrConstructionFailure is returned by Dialogues.Create when the initial
// message it builds fails validation against the protocol descriptor. The
// partially-created dialogue is rolled back before this error surfaces.
var ErrConstructionFailure = errors.New("dialogue: could not construct initial message")

// InvalidMessageError wraps ErrInvalidDialogueMessage with the reason
// produced by the validity pipeline.
type InvalidMessageError struct {
	Reason string
}

func (e *InvalidMessageError) Error() string {
	return "dialogue: invalid dialogue message: " + e.Reason
}

func (e *InvalidMessageError) Unwrap() error {
	return ErrInvalidDialogueMessage
}

// ConstructionError wraps ErrConstructionFailure with the underlying
// validation failure.
type ConstructionError struct {
	Reason string
}

func (e *ConstructionError) Error() string {
	return "dialogue: cannot create a dialogue with the specified performative and contents: " + e.Reason
}

func (e *ConstructionError) Unwrap() error {
	return ErrConstructionFailure
}
