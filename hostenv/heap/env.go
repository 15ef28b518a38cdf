package heap

import (
	"fmt"
	"unicode/utf16"

	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/hostenv/mutf8"
)

// Env is the per-call handle returned by Heap.Attach.
type Env struct {
	heap     *Heap
	pins     map[hostenv.Ref]int
	pending  hostenv.Ref
	detached bool
}

var _ hostenv.Env = (*Env)(nil)

// Heap returns the heap this handle is attached to.
func (e *Env) Heap() *Heap {
	return e.heap
}

// Detach ends the call this handle belongs to. Later native use fails with
// hostenv.ErrDetached; exception inspection keeps working for the host.
func (e *Env) Detach() {
	e.detached = true
}

// Pinned returns the number of array snapshots not yet released.
func (e *Env) Pinned() int {
	n := 0
	for _, c := range e.pins {
		n += c
	}
	return n
}

// begin locks the heap for one native operation.
func (e *Env) begin() error {
	if e.detached {
		return hostenv.ErrDetached
	}
	if !e.pending.IsNull() {
		return hostenv.ErrPendingException
	}
	e.heap.mu.Lock()
	return nil
}

func (e *Env) end() {
	e.heap.mu.Unlock()
}

func (e *Env) newInstanceLocked(c *class) *object {
	o := &object{kind: kindInstance, meta: c, fields: make(map[string]hostenv.Value, len(c.fields))}
	for name, sig := range c.fields {
		o.fields[name] = zeroValue(sig)
	}
	return o
}

// throwLocked makes a new className instance pending.
func (e *Env) throwLocked(className, msg string) {
	c, ok := e.heap.classes[className]
	if !ok {
		c = e.heap.classes[RuntimeException]
	}
	exc := e.newInstanceLocked(c)
	str := e.heap.allocLocked(&object{kind: kindString, meta: e.heap.classes[StringClass], str: utf16.Encode([]rune(msg))})
	exc.fields["message"] = hostenv.Object(str)
	e.pending = e.heap.allocLocked(exc)
}

func (e *Env) objectLocked(r hostenv.Ref) (*object, error) {
	o, err := e.heap.lookupLocked(r)
	if err == hostenv.ErrNullReference {
		e.throwLocked(NullPointerException, "")
	}
	return o, err
}

func (e *Env) classLocked(r hostenv.Ref) (*class, error) {
	o, err := e.objectLocked(r)
	if err != nil {
		return nil, err
	}
	if o.kind != kindClass {
		return nil, fmt.Errorf("%w: reference %d is not a class", hostenv.ErrFieldType, uint64(r))
	}
	return o.meta, nil
}

func (e *Env) FindClass(name string) (hostenv.Ref, error) {
	if err := e.begin(); err != nil {
		return hostenv.Null, err
	}
	defer e.end()

	c, ok := e.heap.classes[name]
	if !ok {
		e.throwLocked(NoClassDefFoundError, name)
		return hostenv.Null, fmt.Errorf("%w: %s", hostenv.ErrClassNotFound, name)
	}
	return c.ref, nil
}

func (e *Env) ctorLocked(c *class, sig string) (CtorDef, error) {
	ctor, ok := c.ctors[sig]
	if !ok || c.iface {
		e.throwLocked(NoSuchMethodError, c.name+".<init>"+sig)
		return CtorDef{}, fmt.Errorf("%w: %s.<init>%s", hostenv.ErrNoSuchMethod, c.name, sig)
	}
	return ctor, nil
}

func (e *Env) fieldLocked(c *class, name, sig string) error {
	declared, ok := c.fields[name]
	if !ok {
		e.throwLocked(NoSuchFieldError, name)
		return fmt.Errorf("%w: %s.%s", hostenv.ErrNoSuchField, c.name, name)
	}
	if declared != sig {
		e.throwLocked(NoSuchFieldError, name)
		return fmt.Errorf("%w: %s.%s is %s, not %s", hostenv.ErrFieldType, c.name, name, declared, sig)
	}
	return nil
}

func (e *Env) CheckConstructor(cls hostenv.Ref, sig string) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	c, err := e.classLocked(cls)
	if err != nil {
		return err
	}
	_, err = e.ctorLocked(c, sig)
	return err
}

func (e *Env) CheckField(cls hostenv.Ref, name, sig string) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	c, err := e.classLocked(cls)
	if err != nil {
		return err
	}
	return e.fieldLocked(c, name, sig)
}

func (e *Env) NewObject(cls hostenv.Ref, ctorSig string, args ...hostenv.Value) (hostenv.Ref, error) {
	if err := e.begin(); err != nil {
		return hostenv.Null, err
	}
	defer e.end()

	c, err := e.classLocked(cls)
	if err != nil {
		return hostenv.Null, err
	}
	ctor, err := e.ctorLocked(c, ctorSig)
	if err != nil {
		return hostenv.Null, err
	}

	params, _, _ := hostenv.ParseMethodSig(ctorSig)
	if len(args) != len(params) {
		e.throwLocked(IllegalArgumentException, fmt.Sprintf("%s.<init>%s takes %d arguments, got %d", c.name, ctorSig, len(params), len(args)))
		return hostenv.Null, fmt.Errorf("%w: argument count %d for %s", hostenv.ErrFieldType, len(args), ctorSig)
	}
	for i, arg := range args {
		if err := e.checkValueLocked(params[i], arg); err != nil {
			e.throwLocked(IllegalArgumentException, fmt.Sprintf("%s.<init>%s argument %d", c.name, ctorSig, i))
			return hostenv.Null, fmt.Errorf("%s.<init>%s argument %d: %w", c.name, ctorSig, i, err)
		}
	}

	if ctor.Check != nil {
		goArgs := make([]any, len(args))
		for i, arg := range args {
			goArgs[i] = e.heap.goValueLocked(arg)
		}
		if err := ctor.Check(goArgs); err != nil {
			e.throwLocked(IllegalArgumentException, err.Error())
			return hostenv.Null, fmt.Errorf("%w: %s.<init>: %s", hostenv.ErrException, c.name, err.Error())
		}
	}

	o := e.newInstanceLocked(c)
	for i, name := range ctor.Fields {
		o.fields[name] = args[i]
	}
	return e.heap.allocLocked(o), nil
}

// checkValueLocked verifies v can be stored where sig is declared.
func (e *Env) checkValueLocked(sig string, v hostenv.Value) error {
	kind, err := hostenv.KindOfSig(sig)
	if err != nil {
		return err
	}
	if v.Kind() != kind {
		return fmt.Errorf("%w: %s value for %s", hostenv.ErrFieldType, v.Kind(), sig)
	}
	if kind != hostenv.KindObject {
		return nil
	}
	r, _ := v.AsObject()
	if r.IsNull() {
		return nil
	}
	o, err := e.heap.lookupLocked(r)
	if err != nil {
		return err
	}
	if !e.heap.assignableLocked(o, sig) {
		return fmt.Errorf("%w: %s is not assignable to %s", hostenv.ErrFieldType, o.meta.name, sig)
	}
	return nil
}

func (e *Env) instanceLocked(obj hostenv.Ref, name string) (*object, error) {
	o, err := e.objectLocked(obj)
	if err != nil {
		return nil, err
	}
	if o.kind != kindInstance {
		e.throwLocked(NoSuchFieldError, name)
		return nil, fmt.Errorf("%w: %s has no fields", hostenv.ErrNoSuchField, o.meta.name)
	}
	return o, nil
}

func (e *Env) GetField(obj hostenv.Ref, name, sig string) (hostenv.Value, error) {
	if err := e.begin(); err != nil {
		return hostenv.Value{}, err
	}
	defer e.end()

	o, err := e.instanceLocked(obj, name)
	if err != nil {
		return hostenv.Value{}, err
	}
	if err := e.fieldLocked(o.meta, name, sig); err != nil {
		return hostenv.Value{}, err
	}
	return o.fields[name], nil
}

func (e *Env) SetField(obj hostenv.Ref, name, sig string, v hostenv.Value) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	o, err := e.instanceLocked(obj, name)
	if err != nil {
		return err
	}
	if err := e.fieldLocked(o.meta, name, sig); err != nil {
		return err
	}
	if err := e.checkValueLocked(sig, v); err != nil {
		e.throwLocked(IllegalArgumentException, fmt.Sprintf("%s.%s", o.meta.name, name))
		return fmt.Errorf("%s.%s: %w", o.meta.name, name, err)
	}
	o.fields[name] = v
	return nil
}

func (e *Env) NewString(s string) (hostenv.Ref, error) {
	if err := e.begin(); err != nil {
		return hostenv.Null, err
	}
	defer e.end()

	return e.heap.allocLocked(&object{kind: kindString, meta: e.heap.classes[StringClass], str: utf16.Encode([]rune(s))}), nil
}

func (e *Env) GetStringUTFChars(str hostenv.Ref) ([]byte, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	o, err := e.objectLocked(str)
	if err != nil {
		return nil, err
	}
	if o.kind != kindString {
		return nil, fmt.Errorf("%w: %s is not a string", hostenv.ErrFieldType, o.meta.name)
	}
	return mutf8.EncodeCString(o.str), nil
}

func (e *Env) GetArrayLength(arr hostenv.Ref) (int, error) {
	if err := e.begin(); err != nil {
		return 0, err
	}
	defer e.end()

	o, err := e.objectLocked(arr)
	if err != nil {
		return 0, err
	}
	switch o.kind {
	case kindLongArray:
		return len(o.longs), nil
	case kindObjectArray:
		return len(o.elems), nil
	default:
		return 0, fmt.Errorf("%w: %s is not an array", hostenv.ErrFieldType, o.meta.name)
	}
}

func (e *Env) longArrayLocked(arr hostenv.Ref) (*object, error) {
	o, err := e.objectLocked(arr)
	if err != nil {
		return nil, err
	}
	if o.kind != kindLongArray {
		return nil, fmt.Errorf("%w: %s is not a long[]", hostenv.ErrFieldType, o.meta.name)
	}
	return o, nil
}

func (e *Env) GetLongArrayElements(arr hostenv.Ref) ([]int64, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	o, err := e.longArrayLocked(arr)
	if err != nil {
		return nil, err
	}
	e.pins[arr]++
	return append(make([]int64, 0, len(o.longs)), o.longs...), nil
}

// ReleaseLongArrayElements is allowed while an exception is pending.
func (e *Env) ReleaseLongArrayElements(arr hostenv.Ref, elems []int64, mode hostenv.ReleaseMode) error {
	if e.detached {
		return hostenv.ErrDetached
	}
	e.heap.mu.Lock()
	defer e.heap.mu.Unlock()

	o, err := e.heap.lookupLocked(arr)
	if err != nil {
		return err
	}
	if o.kind != kindLongArray {
		return fmt.Errorf("%w: %s is not a long[]", hostenv.ErrFieldType, o.meta.name)
	}
	if e.pins[arr] == 0 {
		return fmt.Errorf("%w: long[] %d is not pinned", hostenv.ErrBadReference, uint64(arr))
	}
	e.pins[arr]--
	if mode == hostenv.ReleaseCommit {
		copy(o.longs, elems)
	}
	return nil
}

func (e *Env) NewObjectArray(length int, elemClass hostenv.Ref, initial hostenv.Ref) (hostenv.Ref, error) {
	if err := e.begin(); err != nil {
		return hostenv.Null, err
	}
	defer e.end()

	c, err := e.classLocked(elemClass)
	if err != nil {
		return hostenv.Null, err
	}
	if length < 0 {
		e.throwLocked(IllegalArgumentException, fmt.Sprintf("negative array size %d", length))
		return hostenv.Null, fmt.Errorf("%w: negative array size %d", hostenv.ErrIndexOutOfBounds, length)
	}
	if !initial.IsNull() {
		init, err := e.heap.lookupLocked(initial)
		if err != nil {
			return hostenv.Null, err
		}
		if !e.heap.assignableLocked(init, "L"+c.name+";") {
			e.throwLocked(ArrayStoreException, init.meta.name)
			return hostenv.Null, fmt.Errorf("%w: %s into %s[]", hostenv.ErrArrayStore, init.meta.name, c.name)
		}
	}

	elems := make([]hostenv.Ref, length)
	for i := range elems {
		elems[i] = initial
	}
	return e.heap.allocLocked(&object{
		kind:  kindObjectArray,
		meta:  e.heap.arrayClassLocked("[L" + c.name + ";"),
		elem:  c,
		elems: elems,
	}), nil
}

func (e *Env) objectArrayLocked(arr hostenv.Ref, index int) (*object, error) {
	o, err := e.objectLocked(arr)
	if err != nil {
		return nil, err
	}
	if o.kind != kindObjectArray {
		return nil, fmt.Errorf("%w: %s is not an object array", hostenv.ErrFieldType, o.meta.name)
	}
	if index < 0 || index >= len(o.elems) {
		e.throwLocked(ArrayIndexOutOfBoundsException, fmt.Sprintf("index %d, length %d", index, len(o.elems)))
		return nil, fmt.Errorf("%w: index %d, length %d", hostenv.ErrIndexOutOfBounds, index, len(o.elems))
	}
	return o, nil
}

func (e *Env) GetObjectArrayElement(arr hostenv.Ref, index int) (hostenv.Ref, error) {
	if err := e.begin(); err != nil {
		return hostenv.Null, err
	}
	defer e.end()

	o, err := e.objectArrayLocked(arr, index)
	if err != nil {
		return hostenv.Null, err
	}
	return o.elems[index], nil
}

func (e *Env) SetObjectArrayElement(arr hostenv.Ref, index int, v hostenv.Ref) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	o, err := e.objectArrayLocked(arr, index)
	if err != nil {
		return err
	}
	if !v.IsNull() {
		elem, err := e.heap.lookupLocked(v)
		if err != nil {
			return err
		}
		if !e.heap.assignableLocked(elem, "L"+o.elem.name+";") {
			e.throwLocked(ArrayStoreException, elem.meta.name)
			return fmt.Errorf("%w: %s into %s", hostenv.ErrArrayStore, elem.meta.name, o.meta.name)
		}
	}
	o.elems[index] = v
	return nil
}

func (e *Env) ExceptionCheck() bool {
	return !e.pending.IsNull()
}

func (e *Env) ExceptionOccurred() hostenv.Ref {
	return e.pending
}

func (e *Env) ExceptionClear() {
	e.pending = hostenv.Null
}

func (e *Env) ThrowNew(cls hostenv.Ref, msg string) error {
	if err := e.begin(); err != nil {
		return err
	}
	defer e.end()

	c, err := e.classLocked(cls)
	if err != nil {
		return err
	}
	if !c.isThrowable() {
		return fmt.Errorf("%w: %s is not a Throwable", hostenv.ErrFieldType, c.name)
	}
	e.throwLocked(c.name, msg)
	return nil
}

// Thrown describes the pending exception, for host-side inspection.
func (e *Env) Thrown() (className, message string, ok bool) {
	if e.pending.IsNull() {
		return "", "", false
	}
	e.heap.mu.Lock()
	defer e.heap.mu.Unlock()

	o, err := e.heap.lookupLocked(e.pending)
	if err != nil {
		return "", "", false
	}
	className = o.meta.name
	if msg, ok := o.fields["message"].AsObject(); ok && !msg.IsNull() {
		if s, err := e.heap.lookupLocked(msg); err == nil && s.kind == kindString {
			message = string(utf16.Decode(s.str))
		}
	}
	return className, message, true
}
