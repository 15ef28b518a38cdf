package hostenv

// Ref is an opaque reference to a host object. Null is the absent marker.
type Ref uint64

// Null is the null reference.
const Null Ref = 0

// IsNull reports whether r is the null reference.
func (r Ref) IsNull() bool {
	return r == Null
}

// ReleaseMode controls what ReleaseLongArrayElements does with a snapshot.
type ReleaseMode uint8

const (
	// ReleaseCommit copies the snapshot back into the host array.
	ReleaseCommit ReleaseMode = iota
	// ReleaseAbort discards the snapshot without touching the host array.
	ReleaseAbort
)

// Env is the per-call host execution context handle.
//
// Implementations are not safe for concurrent use.
type Env interface {
	// FindClass resolves a class by its slash-separated qualified name.
	FindClass(name string) (Ref, error)
	// CheckConstructor reports whether class declares a constructor with sig.
	CheckConstructor(class Ref, sig string) error
	// CheckField reports whether class declares (or inherits) a field name:sig.
	CheckField(class Ref, name, sig string) error

	// NewObject instantiates class through the constructor matching ctorSig.
	NewObject(class Ref, ctorSig string, args ...Value) (Ref, error)
	GetField(obj Ref, name, sig string) (Value, error)
	SetField(obj Ref, name, sig string, v Value) error

	// NewString creates a host string from Go (UTF-8) text.
	NewString(s string) (Ref, error)
	// GetStringUTFChars returns the NUL-terminated modified UTF-8 form of a
	// host string.
	GetStringUTFChars(str Ref) ([]byte, error)

	GetArrayLength(arr Ref) (int, error)
	// GetLongArrayElements returns a snapshot of a long[]; the snapshot must
	// be handed back through ReleaseLongArrayElements.
	GetLongArrayElements(arr Ref) ([]int64, error)
	ReleaseLongArrayElements(arr Ref, elems []int64, mode ReleaseMode) error

	NewObjectArray(length int, elemClass Ref, initial Ref) (Ref, error)
	GetObjectArrayElement(arr Ref, index int) (Ref, error)
	SetObjectArrayElement(arr Ref, index int, v Ref) error

	// ExceptionCheck reports whether a host exception is pending.
	ExceptionCheck() bool
	// ExceptionOccurred returns the pending exception, or Null.
	ExceptionOccurred() Ref
	ExceptionClear()
	// ThrowNew makes a new instance of class (a Throwable) pending.
	ThrowNew(class Ref, msg string) error
}
