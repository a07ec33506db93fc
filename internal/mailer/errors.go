package mailer

import (
	"errors"
	"strings"
)

type Stage string

const (
	StageConnect Stage = "connect"
	StageSend    Stage = "send"
)

// AttemptError is one failed step of a delivery.
type AttemptError struct {
	Endpoint Endpoint
	Stage    Stage
	Err      error
}

// DeliveryError lists every failed step of a delivery.
type DeliveryError struct {
	Attempts []AttemptError
}

func (e *DeliveryError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, string(a.Stage)+" "+a.Endpoint.String()+": "+a.Err.Error())
	}
	return "email delivery failed: " + strings.Join(parts, "; ")
}

func (e *DeliveryError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// IsDeliveryError reports whether err came from a failed delivery.
func IsDeliveryError(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de)
}
