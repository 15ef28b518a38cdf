package bridge

import (
	stderrors "errors"
	"math"
	"strconv"

	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/schema"
)

// call is the state of one parseThreadPosts invocation. Class refs are
// cached for the duration of the call only.
type call struct {
	env     hostenv.Env
	reg     *schema.Registry
	classes map[schema.Type]hostenv.Ref
}

func newCall(env hostenv.Env, reg *schema.Registry) *call {
	return &call{env: env, reg: reg, classes: make(map[schema.Type]hostenv.Ref)}
}

// settle clears the exception a failed host operation raised itself.
// Exceptions thrown by host code, or pending before the operation, are
// left for the host to observe.
func (c *call) settle(err error) {
	switch {
	case stderrors.Is(err, hostenv.ErrException), stderrors.Is(err, hostenv.ErrPendingException):
	default:
		c.env.ExceptionClear()
	}
}

func (c *call) class(t schema.Type) (hostenv.Ref, error) {
	if cls, ok := c.classes[t]; ok {
		return cls, nil
	}
	name := c.reg.ClassName(t)
	cls, err := c.env.FindClass(name)
	if err != nil {
		c.settle(err)
		return hostenv.Null, errors.HostConstruction(errors.PhaseEncode, []string{t.Name}, name, err)
	}
	c.classes[t] = cls
	return cls, nil
}

// construct instantiates ctor.Owner through ctor with args.
func (c *call) construct(ctor schema.CtorSpec, args ...hostenv.Value) (hostenv.Ref, error) {
	cls, err := c.class(ctor.Owner)
	if err != nil {
		return hostenv.Null, err
	}
	sig := c.reg.CtorSig(ctor)
	obj, err := c.env.NewObject(cls, sig, args...)
	if err != nil {
		c.settle(err)
		return hostenv.Null, errors.HostConstruction(errors.PhaseEncode, []string{ctor.Owner.Name, "<init>" + sig}, c.reg.ClassName(ctor.Owner), err)
	}
	return obj, nil
}

func (c *call) setField(obj hostenv.Ref, f schema.FieldSpec, v hostenv.Value) error {
	if err := c.env.SetField(obj, f.Name, c.reg.FieldSig(f), v); err != nil {
		c.settle(err)
		return errors.HostConstruction(errors.PhaseEncode, []string{f.Owner.Name, f.Name}, c.reg.ClassName(f.Owner), err)
	}
	return nil
}

func (c *call) newString(s string, path ...string) (hostenv.Ref, error) {
	ref, err := c.env.NewString(s)
	if err != nil {
		c.settle(err)
		return hostenv.Null, errors.HostConstruction(errors.PhaseEncode, path, c.reg.ClassName(schema.String), err)
	}
	return ref, nil
}

// newArray allocates an array of n nulls.
func (c *call) newArray(elem schema.Type, n int) (hostenv.Ref, error) {
	cls, err := c.class(elem)
	if err != nil {
		return hostenv.Null, err
	}
	arr, err := c.env.NewObjectArray(n, cls, hostenv.Null)
	if err != nil {
		c.settle(err)
		return hostenv.Null, errors.HostConstruction(errors.PhaseEncode, []string{elem.Name + "[]"}, c.reg.ArraySignature(elem), err)
	}
	return arr, nil
}

func (c *call) setElement(arr hostenv.Ref, elem schema.Type, i int, v hostenv.Ref) error {
	if err := c.env.SetObjectArrayElement(arr, i, v); err != nil {
		c.settle(err)
		return errors.HostConstruction(errors.PhaseEncode, []string{elem.Name + "[]", strconv.Itoa(i)}, c.reg.ArraySignature(elem), err)
	}
	return nil
}

// long converts an unsigned id to a host long.
func long(v uint64, path ...string) (hostenv.Value, error) {
	if v > math.MaxInt64 {
		return hostenv.Value{}, errors.Overflow(errors.PhaseEncode, path, v, "long")
	}
	return hostenv.Long(int64(v)), nil
}

// int32Of converts a span offset to a host int.
func int32Of(v uint32, path ...string) (hostenv.Value, error) {
	if v > math.MaxInt32 {
		return hostenv.Value{}, errors.Overflow(errors.PhaseEncode, path, v, "int")
	}
	return hostenv.Int(int32(v)), nil
}

func appendPath(path []string, elems ...string) []string {
	out := make([]string, 0, len(path)+len(elems))
	return append(append(out, path...), elems...)
}
