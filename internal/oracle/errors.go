package oracle

import "fmt"

// TransientError signals an oracle-side failure (unreachable, rate-limited,
// timed out). Retryable at tier granularity, never fatal to the pipeline.
type TransientError struct {
	Message string
	Cause   error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient extraction failure: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transient extraction failure: %s", e.Message)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// NoUsableResponseError signals that the oracle answered but with nothing
// usable: an empty response or a refusal.
type NoUsableResponseError struct {
	Message string
}

func (e *NoUsableResponseError) Error() string {
	return fmt.Sprintf("no usable oracle response: %s", e.Message)
}
