package hostenv

import "errors"

var (
	ErrClassNotFound    = errors.New("class not found")
	ErrNoSuchField      = errors.New("no such field")
	ErrNoSuchMethod     = errors.New("no such method")
	ErrFieldType        = errors.New("incompatible type")
	ErrNullReference    = errors.New("null reference")
	ErrBadReference     = errors.New("invalid reference")
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrArrayStore       = errors.New("array store of incompatible element")
	ErrException        = errors.New("host exception thrown")
	ErrPendingException = errors.New("host exception pending")
	ErrDetached         = errors.New("env used outside of its call")
)

// IsLookup reports whether err is a failed class, field or method lookup.
// Lookups leave a pending host exception that the caller may translate.
func IsLookup(err error) bool {
	return errors.Is(err, ErrClassNotFound) ||
		errors.Is(err, ErrNoSuchField) ||
		errors.Is(err, ErrNoSuchMethod) ||
		errors.Is(err, ErrFieldType)
}
