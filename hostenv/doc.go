// Package hostenv defines the contract between the native bridge and the
// managed host runtime that owns the request and response objects.
//
// The surface mirrors the subset of JNI the bridge needs:
//
//	┌──────────────┐  FindClass / NewObject / SetField   ┌──────────────┐
//	│ native side  │ ──────────────────────────────────▶ │ host objects │
//	│   (bridge)   │ ◀────────────────────────────────── │   (heap)     │
//	└──────────────┘  GetField / GetStringUTFChars / ... └──────────────┘
//
// An Env is the per-call execution context handle. It is handed to the
// native side for the duration of one call and must not be retained, shared
// between goroutines, or used after the call returns. Every Ref obtained
// through an Env is scoped to the same call.
//
// # Pending exceptions
//
// Like JNI, a failed lookup (missing class, field or constructor) leaves a
// pending host exception in addition to returning an error. While an
// exception is pending, most operations fail with ErrPendingException; the
// caller must either clear it (ExceptionClear) or return to the host so the
// host can observe it.
//
// # Signatures
//
// Types are described with JVM descriptors:
//
//	Z        boolean
//	I        int
//	J        long
//	Lpkg/C;  object of class pkg/C
//	[J       long[]
//	[Lpkg/C; array of pkg/C
//	(JJ)V    constructor taking two longs
package hostenv
