package go_ncmdump

import "errors"

var (
	// ErrInvalidHeader is returned when the container does not start with the NCM magic.
	ErrInvalidHeader = errors.New("invalid ncm header")
	// ErrUnexpectedEOF is returned when a section declares more bytes than the source holds.
	ErrUnexpectedEOF = errors.New("unexpected end of container")
	// ErrCipherFailure covers bad block alignment, bad key size and malformed padding.
	ErrCipherFailure = errors.New("cipher failure")
	// ErrBase64 is returned when the metadata section is not valid base64 after its prefix.
	ErrBase64 = errors.New("malformed base64 metadata")
	// ErrUtf8 is returned when the decrypted metadata is not valid UTF-8 text.
	ErrUtf8 = errors.New("metadata is not valid utf-8")
	// ErrJSONParse is returned when the decrypted metadata is not a single JSON object.
	ErrJSONParse = errors.New("malformed metadata json")
	// ErrMissingField is returned when the metadata lacks the audio format.
	ErrMissingField = errors.New("metadata field missing")
)
