// Package heap is an in-process managed object heap implementing
// hostenv.Env.
//
// It stands in for the managed host runtime: classes with typed fields and
// signature-matched constructors, UTF-16 strings, primitive and object
// arrays, and per-call pending exceptions. Every native call gets a fresh
// Env from Attach; Detach invalidates it, so a handle retained past its call
// fails with hostenv.ErrDetached.
package heap

import (
	"fmt"
	"sync"
	"unicode/utf16"

	"github.com/kurobaex/native-bridge/hostenv"
)

type objectKind uint8

const (
	kindInstance objectKind = iota
	kindClass
	kindString
	kindLongArray
	kindObjectArray
)

type object struct {
	meta *class // instance class, or the class a class object describes
	elem *class // element class of object arrays

	fields map[string]hostenv.Value
	str    []uint16
	longs  []int64
	elems  []hostenv.Ref
	kind   objectKind
}

// Heap owns every host object. It is safe for concurrent use by multiple
// Envs; a single Env is not.
type Heap struct {
	classes map[string]*class
	objects map[hostenv.Ref]*object
	mu      sync.Mutex
	next    hostenv.Ref
}

// New returns a heap with java/lang/Object, String, Throwable and the
// standard JNI error classes defined.
func New() *Heap {
	h := &Heap{
		classes: make(map[string]*class),
		objects: make(map[hostenv.Ref]*object),
	}
	h.defineBuiltins()
	return h
}

func (h *Heap) allocLocked(o *object) hostenv.Ref {
	h.next++
	h.objects[h.next] = o
	return h.next
}

func (h *Heap) lookupLocked(r hostenv.Ref) (*object, error) {
	if r.IsNull() {
		return nil, hostenv.ErrNullReference
	}
	o, ok := h.objects[r]
	if !ok {
		return nil, fmt.Errorf("%w: %d", hostenv.ErrBadReference, uint64(r))
	}
	return o, nil
}

// Attach returns a fresh execution context handle for one native call.
func (h *Heap) Attach() *Env {
	return &Env{heap: h, pins: make(map[hostenv.Ref]int)}
}

// NewLongArray creates a long[] on the host side.
func (h *Heap) NewLongArray(values []int64) hostenv.Ref {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allocLocked(&object{kind: kindLongArray, meta: h.arrayClassLocked("[J"), longs: append([]int64(nil), values...)})
}

// NewStringUTF16 creates a host string from raw UTF-16 code units, which
// may include unpaired surrogates.
func (h *Heap) NewStringUTF16(units []uint16) hostenv.Ref {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allocLocked(&object{kind: kindString, meta: h.classes[StringClass], str: append([]uint16(nil), units...)})
}

// NewString creates a host string from Go text.
func (h *Heap) NewString(s string) hostenv.Ref {
	return h.NewStringUTF16(utf16.Encode([]rune(s)))
}

// LongArray returns a copy of a long[] for host-side inspection.
func (h *Heap) LongArray(r hostenv.Ref) ([]int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, err := h.lookupLocked(r)
	if err != nil {
		return nil, err
	}
	if o.kind != kindLongArray {
		return nil, fmt.Errorf("%w: not a long[]", hostenv.ErrFieldType)
	}
	return append([]int64(nil), o.longs...), nil
}

// ClassName returns the class name of obj, e.g. "java/lang/String" or
// "[Lpkg/C;" for arrays.
func (h *Heap) ClassName(obj hostenv.Ref) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o, err := h.lookupLocked(obj)
	if err != nil {
		return "", err
	}
	if o.kind == kindClass {
		return "java/lang/Class", nil
	}
	return o.meta.name, nil
}

// arrayClassLocked returns a synthetic class describing an array type.
// Array classes are never registered for FindClass.
func (h *Heap) arrayClassLocked(name string) *class {
	return &class{
		name:       name,
		fields:     map[string]string{},
		ctors:      map[string]CtorDef{},
		supertypes: map[string]struct{}{name: {}},
	}
}

// assignableLocked reports whether o may be stored where sig is declared.
func (h *Heap) assignableLocked(o *object, sig string) bool {
	if o == nil {
		return true
	}
	switch {
	case sig == "[J":
		return o.kind == kindLongArray
	case len(sig) > 1 && sig[0] == '[':
		if o.kind != kindObjectArray {
			return false
		}
		elemName := hostenv.ClassOfSig(sig[1:])
		return elemName != "" && o.elem.assignableTo(elemName)
	default:
		name := hostenv.ClassOfSig(sig)
		if name == "" {
			return false
		}
		if name == ObjectClass {
			return true
		}
		switch o.kind {
		case kindInstance, kindString:
			return o.meta.assignableTo(name)
		default:
			return false
		}
	}
}

// goValueLocked converts a host value to the Go form handed to
// constructor checks.
func (h *Heap) goValueLocked(v hostenv.Value) any {
	switch v.Kind() {
	case hostenv.KindBool:
		b, _ := v.AsBool()
		return b
	case hostenv.KindInt:
		i, _ := v.AsInt()
		return i
	case hostenv.KindLong:
		l, _ := v.AsLong()
		return l
	case hostenv.KindObject:
		r, _ := v.AsObject()
		if o, err := h.lookupLocked(r); err == nil && o.kind == kindString {
			return string(utf16.Decode(o.str))
		}
		return r
	default:
		return nil
	}
}

func zeroValue(sig string) hostenv.Value {
	kind, _ := hostenv.KindOfSig(sig)
	switch kind {
	case hostenv.KindBool:
		return hostenv.Bool(false)
	case hostenv.KindInt:
		return hostenv.Int(0)
	case hostenv.KindLong:
		return hostenv.Long(0)
	default:
		return hostenv.Object(hostenv.Null)
	}
}
