package llm

import "fmt"

// MalformedOutputError reports that a provider replied successfully but with
// output that could not be parsed into the expected shape. Raw carries the
// provider text verbatim for diagnosis.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed provider output: %v", e.Err)
	}
	return "malformed provider output"
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}
