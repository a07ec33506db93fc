package tailoring

import "errors"

var (
	ErrInvalidInput   = errors.New("baseResume and jobDescription are required")
	ErrMisconfigured  = errors.New("model API key is not configured")
	ErrResponseFormat = errors.New("unable to parse model response as JSON")
	ErrResponseShape  = errors.New("model response missing 'resume' or 'coverLetter' fields")
)

// ResponseError reports model output that did not match the expected contract.
// Raw is the untouched model output.
type ResponseError struct {
	Kind  error
	Raw   string
	Cause error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return e.Kind.Error() + ": " + e.Cause.Error()
	}
	return e.Kind.Error()
}

func (e *ResponseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}
