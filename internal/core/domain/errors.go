package domain

import "errors"

// Domain errors represent pipeline failures by category.
// These are distinct from the wrapped infrastructure errors they carry.
var (
	// ErrNotFound indicates a requested file or path does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedType indicates an unrecognised document extension.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrDecode indicates text could not be decoded under the primary
	// or fallback character encoding.
	ErrDecode = errors.New("decode failed")

	// ErrTransport indicates a network call to the embedding, search,
	// or completion service failed. Callers decide the retry policy;
	// nothing in the pipeline retries.
	ErrTransport = errors.New("transport failure")

	// ErrStorageUnavailable indicates the object store rejected or
	// could not complete an upload.
	ErrStorageUnavailable = errors.New("object storage unavailable")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
