package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError indicates the request never produced a usable GraphQL
// response: the network call failed outright or the server answered with
// a non-2xx status. StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("transport error: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("transport error (%d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("transport error (%d)", e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err (or any error in its chain) is a
// TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ProtocolError indicates the HTTP exchange succeeded but the response
// envelope carried a non-empty errors list. GraphQL reports application
// errors inside 200-status bodies, so a 2xx alone never means success.
type ProtocolError struct {
	Messages []string
}

func (e *ProtocolError) Error() string {
	return "graphql error: " + strings.Join(e.Messages, ", ")
}

// IsProtocolError reports whether err (or any error in its chain) is a
// ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// AuthError indicates a sign-up or login attempt that the server rejected
// at the application level: transport and protocol both succeeded but the
// payload's success flag was false. Message is the server-supplied reason
// and is meant to be shown to the user verbatim.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
