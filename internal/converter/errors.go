package converter

import "fmt"

// RangeError — invalid chapter bounds supplied by the caller. Not retried.
type RangeError struct {
	Bound string // "start", "end" or "order"
	Value int
	Limit int
}

func (e *RangeError) Error() string {
	if e.Bound == "order" {
		return fmt.Sprintf("chapter start index %d is larger than chapter end index %d, check your input", e.Value, e.Limit)
	}
	return fmt.Sprintf("chapter %s index %d is out of range (book has %d chapters), check your input", e.Bound, e.Value, e.Limit)
}

// BackendError — a TTS provider call failed. The run aborts on it.
type BackendError struct {
	Provider string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("tts provider %s: %v", e.Provider, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// DeliveryError — the audio sink rejected an artifact. Best-effort:
// reported to the message sink, the run keeps going.
type DeliveryError struct {
	Path string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s: %v", e.Path, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
