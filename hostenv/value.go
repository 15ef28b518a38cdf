package hostenv

import "fmt"

// ValueKind is the JNI value tag.
type ValueKind uint8

const (
	KindVoid ValueKind = iota
	KindBool
	KindInt
	KindLong
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "boolean"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Value is a tagged host value, the equivalent of a JNI jvalue.
type Value struct {
	kind ValueKind
	prim int64
	ref  Ref
}

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.prim = 1
	}
	return v
}

func Int(i int32) Value {
	return Value{kind: KindInt, prim: int64(i)}
}

func Long(l int64) Value {
	return Value{kind: KindLong, prim: l}
}

func Object(r Ref) Value {
	return Value{kind: KindObject, ref: r}
}

// Kind returns the value tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) AsBool() (bool, bool) {
	return v.prim != 0, v.kind == KindBool
}

func (v Value) AsInt() (int32, bool) {
	return int32(v.prim), v.kind == KindInt
}

func (v Value) AsLong() (int64, bool) {
	return v.prim, v.kind == KindLong
}

func (v Value) AsObject() (Ref, bool) {
	return v.ref, v.kind == KindObject
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("boolean(%t)", v.prim != 0)
	case KindInt:
		return fmt.Sprintf("int(%d)", int32(v.prim))
	case KindLong:
		return fmt.Sprintf("long(%d)", v.prim)
	case KindObject:
		return fmt.Sprintf("object(%d)", uint64(v.ref))
	default:
		return "void"
	}
}
