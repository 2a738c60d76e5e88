package binfile

import "errors"

var (
	// ErrMalformedContainer covers bad magic, bad version, missing or
	// duplicate sections and bad section sizes.
	ErrMalformedContainer = errors.New("malformed container")
	// ErrUnsupportedField covers a field size other than 32 bytes, an
	// unknown prime, and non-canonical scalars.
	ErrUnsupportedField = errors.New("unsupported field")
	// ErrTruncatedSection is returned when a section body is shorter than
	// its declared byte length.
	ErrTruncatedSection = errors.New("truncated section")
	// ErrWireMapInvariant is returned when wire 0 is not mapped to label 0.
	ErrWireMapInvariant = errors.New("wire 0 must map to label 0")
)
