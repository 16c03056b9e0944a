package parsing

import "fmt"

// maxFragmentLen bounds how much raw oracle text a ParseError carries.
const maxFragmentLen = 200

// ParseError reports a malformed oracle response. Fragment holds the
// offending piece of raw text so failures can be diagnosed without
// re-running the pipeline; it is never silently dropped.
type ParseError struct {
	Message  string
	Fragment string
	Cause    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error: %s", e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Fragment != "" {
		msg = fmt.Sprintf("%s (fragment: %q)", msg, e.Fragment)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// snippet truncates raw text to a diagnosable fragment.
func snippet(s string) string {
	if len(s) > maxFragmentLen {
		return s[:maxFragmentLen] + "..."
	}
	return s
}
