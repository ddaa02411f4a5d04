package driven

import "context"

// StoredObject describes an uploaded original document.
type StoredObject struct {
	// URL is the location of the stored object.
	URL string

	// Container is the bucket or folder holding the object.
	Container string

	// Name is the object name within the container.
	Name string
}

// ObjectStore archives original document files alongside the index.
// Container provisioning is idempotent. Failures surface as
// domain.ErrStorageUnavailable.
type ObjectStore interface {
	// Put uploads the file at path and returns its stored location.
	Put(ctx context.Context, path string) (*StoredObject, error)
}
