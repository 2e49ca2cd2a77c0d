package codec

import "errors"

var (
	// ErrTypeMismatch is returned by typed accessors used on the wrong entry type
	ErrTypeMismatch = errors.New("entry type mismatch")
	// ErrNotImplemented is returned for media kinds without a conversion
	ErrNotImplemented = errors.New("media conversion not implemented")
	// ErrMalformedPayload is returned when a payload does not match its layout
	ErrMalformedPayload = errors.New("malformed payload")
)
