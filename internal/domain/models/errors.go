package models

import "errors"

var (
	// ErrTransport marks failures to reach the backend or push transport.
	ErrTransport = errors.New("transport failure")
	// ErrMalformedPayload marks payloads that failed decoding or validation.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnknownEvent marks push frames with an event name we do not consume.
	ErrUnknownEvent = errors.New("unknown event")
)
