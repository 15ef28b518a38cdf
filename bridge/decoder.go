package bridge

import (
	stderrors "errors"
	"strconv"

	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/hostenv/mutf8"
	"github.com/kurobaex/native-bridge/model"
	"github.com/kurobaex/native-bridge/schema"
)

// decodeErr translates a failed host read of f into the decode taxonomy.
func (c *call) decodeErr(err error, f schema.FieldSpec, path []string) error {
	c.settle(err)
	sig := c.reg.FieldSig(f)
	path = appendPath(path, f.Name)

	switch {
	case stderrors.Is(err, hostenv.ErrNoSuchField), stderrors.Is(err, hostenv.ErrNullReference):
		return errors.New(errors.PhaseDecode, errors.KindFieldMissing).
			Path(path...).
			HostType(sig).
			Detail("required field %q not found", f.Name).
			Cause(err).
			Build()
	case stderrors.Is(err, hostenv.ErrFieldType):
		return errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
			Path(path...).
			HostType(sig).
			Cause(err).
			Build()
	default:
		return errors.HostConstruction(errors.PhaseDecode, path, c.reg.ClassName(f.Owner), err)
	}
}

func (c *call) field(obj hostenv.Ref, f schema.FieldSpec, path []string) (hostenv.Value, error) {
	v, err := c.env.GetField(obj, f.Name, c.reg.FieldSig(f))
	if err != nil {
		return hostenv.Value{}, c.decodeErr(err, f, path)
	}
	return v, nil
}

// object reads a reference field; null is returned as Null.
func (c *call) object(obj hostenv.Ref, f schema.FieldSpec, path []string) (hostenv.Ref, error) {
	v, err := c.field(obj, f, path)
	if err != nil {
		return hostenv.Null, err
	}
	ref, ok := v.AsObject()
	if !ok {
		return hostenv.Null, errors.TypeMismatch(errors.PhaseDecode, appendPath(path, f.Name), "reference", v.Kind().String())
	}
	return ref, nil
}

// requiredObject is object with null reported as a missing field.
func (c *call) requiredObject(obj hostenv.Ref, f schema.FieldSpec, path []string) (hostenv.Ref, error) {
	ref, err := c.object(obj, f, path)
	if err == nil && ref.IsNull() {
		err = errors.FieldMissing(errors.PhaseDecode, appendPath(path, f.Name), f.Name)
	}
	return ref, err
}

// decodeOptString reads a string field; a null field yields nil.
func (c *call) decodeOptString(obj hostenv.Ref, f schema.FieldSpec, path []string) (*string, error) {
	ref, err := c.object(obj, f, path)
	if err != nil || ref.IsNull() {
		return nil, err
	}
	chars, err := c.env.GetStringUTFChars(ref)
	if err != nil {
		return nil, c.decodeErr(err, f, path)
	}
	s, err := mutf8.DecodeCString(chars)
	if err != nil {
		e := errors.InvalidUTF8(errors.PhaseDecode, appendPath(path, f.Name), chars)
		e.Cause = err
		return nil, e
	}
	return &s, nil
}

func (c *call) decodeString(obj hostenv.Ref, f schema.FieldSpec, path []string) (string, error) {
	s, err := c.decodeOptString(obj, f, path)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", errors.FieldMissing(errors.PhaseDecode, appendPath(path, f.Name), f.Name)
	}
	return *s, nil
}

func (c *call) decodeLong(obj hostenv.Ref, f schema.FieldSpec, path []string) (int64, error) {
	v, err := c.field(obj, f, path)
	if err != nil {
		return 0, err
	}
	l, ok := v.AsLong()
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseDecode, appendPath(path, f.Name), "int64", v.Kind().String())
	}
	return l, nil
}

// decodeID reads a long that must not be negative.
func (c *call) decodeID(obj hostenv.Ref, f schema.FieldSpec, path []string) (uint64, error) {
	l, err := c.decodeLong(obj, f, path)
	if err != nil {
		return 0, err
	}
	if l < 0 {
		return 0, errors.Overflow(errors.PhaseDecode, appendPath(path, f.Name), l, "uint64")
	}
	return uint64(l), nil
}

// decodeLongSet reads a long[] into a set. The host array is read through
// a snapshot that is released without copying back.
func (c *call) decodeLongSet(obj hostenv.Ref, f schema.FieldSpec, path []string) (set model.IDSet, err error) {
	arr, err := c.requiredObject(obj, f, path)
	if err != nil {
		return nil, err
	}
	elems, err := c.env.GetLongArrayElements(arr)
	if err != nil {
		return nil, c.decodeErr(err, f, path)
	}
	defer func() {
		if rerr := c.env.ReleaseLongArrayElements(arr, elems, hostenv.ReleaseAbort); rerr != nil && err == nil {
			set, err = nil, c.decodeErr(rerr, f, path)
		}
	}()

	set = make(model.IDSet, len(elems))
	for i, id := range elems {
		if id < 0 {
			return nil, errors.Overflow(errors.PhaseDecode, appendPath(path, f.Name, strconv.Itoa(i)), id, "uint64")
		}
		set[uint64(id)] = struct{}{}
	}
	return set, nil
}

// decodeObjectArray reads every element of an object array field.
func (c *call) decodeObjectArray(obj hostenv.Ref, f schema.FieldSpec, path []string) ([]hostenv.Ref, error) {
	arr, err := c.requiredObject(obj, f, path)
	if err != nil {
		return nil, err
	}
	n, err := c.env.GetArrayLength(arr)
	if err != nil {
		return nil, c.decodeErr(err, f, path)
	}
	out := make([]hostenv.Ref, n)
	for i := range out {
		if out[i], err = c.env.GetObjectArrayElement(arr, i); err != nil {
			return nil, c.decodeErr(err, f, path)
		}
	}
	return out, nil
}
