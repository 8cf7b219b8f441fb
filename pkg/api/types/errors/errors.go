package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by cluster clients when the requested resource does not exist.
//
// The REST client maps 404 responses to it, so that lookups by name can tell
// "no such model version" from other failures.
var ErrNotFound = errors.New("not found")

// ErrorResponse is the enveloped form of error bodies.
//
// Gateways in front of the serving API wrap the message:
//
//	{"message": {"reason": "model version claims:3 is not found"}}
type ErrorResponse struct {
	Message ErrorMessage `json:"message"`
}

// ErrorMessage is the error body of the serving API.
//
//	{
//	    "reason": "application claims-app is not found",
//	    "advice": "create the application first",
//	    "see": "https://serving.example.com/docs/applications"
//	}
//
// "reason" is required. Others are optional.
type ErrorMessage struct {
	// Reason tells what went wrong, in the server's words.
	Reason string `json:"reason"`

	// Advice tells how to recover, if the server knows.
	Advice string `json:"advice,omitempty"`

	// See is a link to documents about the error.
	See string `json:"see,omitempty"`

	// Cause is an error on the client side which has been caused by this message.
	// It is not a part of the body.
	Cause error `json:"-"`
}

func (em *ErrorMessage) UnmarshalJSON(b []byte) error {
	type body ErrorMessage
	reason := struct {
		Reason *string `json:"reason"`
	}{}
	if err := json.Unmarshal(b, &reason); err != nil {
		return err
	}
	if reason.Reason == nil {
		return fmt.Errorf(`error message without "reason": %s`, string(b))
	}

	parsed := body{}
	if err := json.Unmarshal(b, &parsed); err != nil {
		return err
	}
	parsed.Cause = em.Cause
	*em = ErrorMessage(parsed)
	return nil
}

func (e ErrorMessage) String() string {
	b := new(strings.Builder)
	b.WriteString(e.Reason)
	if e.Advice != "" {
		b.WriteString("\n" + e.Advice)
	}
	if e.See != "" {
		b.WriteString("\nsee: " + e.See)
	}
	if e.Cause != nil {
		b.WriteString("\ncaused by: " + e.Cause.Error())
	}
	return b.String()
}

func (e ErrorMessage) Error() string {
	return e.String()
}

func (e ErrorMessage) Unwrap() error {
	return e.Cause
}
