package apperrors

import "fmt"

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// ErrUnexpectedStatus is returned when a remote API answers with a non-2xx status.
type ErrUnexpectedStatus struct {
	Endpoint   string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("%s returned unexpected status %d", e.Endpoint, e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *ErrUnexpectedStatus) Is(target error) bool {
	_, ok := target.(*ErrUnexpectedStatus)
	return ok
}

// ErrMalformedIdentifier is returned when a catalog identifier does not match
// any known shape for the requested media type.
type ErrMalformedIdentifier struct {
	ID        string
	MediaType string
}

// Error implements the error interface.
func (e *ErrMalformedIdentifier) Error() string {
	return fmt.Sprintf("malformed %s identifier %q", e.MediaType, e.ID)
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedIdentifier) Is(target error) bool {
	_, ok := target.(*ErrMalformedIdentifier)
	return ok
}

// NewMalformedIdentifierError creates a new ErrMalformedIdentifier.
func NewMalformedIdentifierError(id, mediaType string) *ErrMalformedIdentifier {
	return &ErrMalformedIdentifier{
		ID:        id,
		MediaType: mediaType,
	}
}
