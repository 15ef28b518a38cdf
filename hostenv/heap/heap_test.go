package heap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurobaex/native-bridge/hostenv"
)

const (
	pointClass = "test/Point"
	shapeIface = "test/Shape"
	circle     = "test/Circle"
)

func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	h := New()
	h.MustDefine(
		ClassDef{
			Name:  pointClass,
			Super: ObjectClass,
			Fields: []FieldDef{
				{Name: "x", Sig: "J"},
				{Name: "y", Sig: "I"},
				{Name: "label", Sig: "Ljava/lang/String;"},
			},
			Ctors: []CtorDef{
				{Sig: "()V"},
				{
					Sig:    "(JLjava/lang/String;)V",
					Fields: []string{"x", "label"},
					Check: func(args []any) error {
						if args[1] == "" {
							return fmt.Errorf("label must not be empty")
						}
						return nil
					},
				},
			},
		},
		ClassDef{Name: shapeIface, Interface: true},
		ClassDef{Name: circle, Super: ObjectClass, Interfaces: []string{shapeIface}, Ctors: []CtorDef{{Sig: "()V"}}},
	)
	return h
}

func mustClass(t *testing.T, env *Env, name string) hostenv.Ref {
	t.Helper()
	cls, err := env.FindClass(name)
	require.NoError(t, err)
	return cls
}

func TestDefine(t *testing.T) {
	h := New()

	tests := []struct {
		name string
		def  ClassDef
	}{
		{name: "empty name", def: ClassDef{}},
		{name: "duplicate", def: ClassDef{Name: ObjectClass}},
		{name: "undefined super", def: ClassDef{Name: "a/B", Super: "a/Missing"}},
		{name: "bad field sig", def: ClassDef{Name: "a/B", Fields: []FieldDef{{Name: "f", Sig: "Q"}}}},
		{name: "ctor not void", def: ClassDef{Name: "a/B", Ctors: []CtorDef{{Sig: "()J"}}}},
		{
			name: "ctor field mismatch",
			def: ClassDef{
				Name:   "a/B",
				Fields: []FieldDef{{Name: "f", Sig: "J"}},
				Ctors:  []CtorDef{{Sig: "(I)V", Fields: []string{"f"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, h.Define(tt.def))
		})
	}
}

func TestFindClass(t *testing.T) {
	h := newTestHeap(t)
	env := h.Attach()

	cls := mustClass(t, env, pointClass)
	name, err := h.ClassName(cls)
	require.NoError(t, err)
	assert.Equal(t, "java/lang/Class", name)

	_, err = env.FindClass("test/Missing")
	assert.ErrorIs(t, err, hostenv.ErrClassNotFound)
	assert.True(t, hostenv.IsLookup(err))

	class, msg, ok := env.Thrown()
	require.True(t, ok)
	assert.Equal(t, NoClassDefFoundError, class)
	assert.Equal(t, "test/Missing", msg)

	_, err = env.FindClass(pointClass)
	assert.ErrorIs(t, err, hostenv.ErrPendingException)

	env.ExceptionClear()
	assert.False(t, env.ExceptionCheck())
	assert.True(t, env.ExceptionOccurred().IsNull())
	mustClass(t, env, pointClass)
}

func TestChecks(t *testing.T) {
	h := newTestHeap(t)
	env := h.Attach()
	cls := mustClass(t, env, pointClass)

	assert.NoError(t, env.CheckField(cls, "x", "J"))
	assert.NoError(t, env.CheckConstructor(cls, "(JLjava/lang/String;)V"))

	err := env.CheckField(cls, "x", "I")
	assert.ErrorIs(t, err, hostenv.ErrFieldType)
	env.ExceptionClear()

	err = env.CheckField(cls, "z", "J")
	assert.ErrorIs(t, err, hostenv.ErrNoSuchField)
	env.ExceptionClear()

	err = env.CheckConstructor(cls, "(J)V")
	assert.ErrorIs(t, err, hostenv.ErrNoSuchMethod)
	class, _, _ := env.Thrown()
	assert.Equal(t, NoSuchMethodError, class)
	env.ExceptionClear()

	err = env.CheckConstructor(mustClass(t, env, shapeIface), "()V")
	assert.ErrorIs(t, err, hostenv.ErrNoSuchMethod, "interfaces cannot be instantiated")
}

func TestNewObject(t *testing.T) {
	h := newTestHeap(t)
	env := h.Attach()
	cls := mustClass(t, env, pointClass)

	label, err := env.NewString("origin")
	require.NoError(t, err)
	p, err := env.NewObject(cls, "(JLjava/lang/String;)V", hostenv.Long(7), hostenv.Object(label))
	require.NoError(t, err)

	x, err := env.GetField(p, "x", "J")
	require.NoError(t, err)
	assert.Equal(t, hostenv.Long(7), x)

	y, err := env.GetField(p, "y", "I")
	require.NoError(t, err)
	assert.Equal(t, hostenv.Int(0), y, "unassigned fields start zeroed")

	name, err := h.ClassName(p)
	require.NoError(t, err)
	assert.Equal(t, pointClass, name)

	t.Run("check failure", func(t *testing.T) {
		env := h.Attach()
		empty, err := env.NewString("")
		require.NoError(t, err)

		_, err = env.NewObject(cls, "(JLjava/lang/String;)V", hostenv.Long(1), hostenv.Object(empty))
		assert.ErrorIs(t, err, hostenv.ErrException)
		class, msg, ok := env.Thrown()
		require.True(t, ok)
		assert.Equal(t, IllegalArgumentException, class)
		assert.Equal(t, "label must not be empty", msg)
	})

	t.Run("argument count", func(t *testing.T) {
		env := h.Attach()
		_, err := env.NewObject(cls, "(JLjava/lang/String;)V", hostenv.Long(1))
		assert.ErrorIs(t, err, hostenv.ErrFieldType)
		assert.True(t, env.ExceptionCheck())
	})

	t.Run("argument type", func(t *testing.T) {
		env := h.Attach()
		_, err := env.NewObject(cls, "(JLjava/lang/String;)V", hostenv.Int(1), hostenv.Object(hostenv.Null))
		assert.ErrorIs(t, err, hostenv.ErrFieldType)
	})
}

func TestFields(t *testing.T) {
	h := newTestHeap(t)
	env := h.Attach()
	cls := mustClass(t, env, pointClass)
	p, err := env.NewObject(cls, "()V")
	require.NoError(t, err)

	require.NoError(t, env.SetField(p, "y", "I", hostenv.Int(-3)))
	v, err := env.GetField(p, "y", "I")
	require.NoError(t, err)
	assert.Equal(t, hostenv.Int(-3), v)

	err = env.SetField(p, "y", "I", hostenv.Long(1))
	assert.ErrorIs(t, err, hostenv.ErrFieldType)
	env.ExceptionClear()

	c, err := env.NewObject(mustClass(t, env, circle), "()V")
	require.NoError(t, err)
	err = env.SetField(p, "label", "Ljava/lang/String;", hostenv.Object(c))
	assert.ErrorIs(t, err, hostenv.ErrFieldType)
	env.ExceptionClear()

	_, err = env.GetField(hostenv.Null, "x", "J")
	assert.ErrorIs(t, err, hostenv.ErrNullReference)
	class, _, _ := env.Thrown()
	assert.Equal(t, NullPointerException, class)
	env.ExceptionClear()

	_, err = env.GetField(p, "missing", "J")
	assert.ErrorIs(t, err, hostenv.ErrNoSuchField)
	env.ExceptionClear()

	_, err = env.GetField(hostenv.Ref(9999), "x", "J")
	assert.ErrorIs(t, err, hostenv.ErrBadReference)
}

func TestStrings(t *testing.T) {
	h := New()
	env := h.Attach()

	s, err := env.NewString("a\x00é😀")
	require.NoError(t, err)
	b, err := env.GetStringUTFChars(s)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		'a',
		0xC0, 0x80, // NUL
		0xC3, 0xA9, // é
		0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80, // 😀 as a surrogate pair
		0x00,
	}, b)

	lone := h.NewStringUTF16([]uint16{0xDC00})
	b, err = env.GetStringUTFChars(lone)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xED, 0xB0, 0x80, 0x00}, b)

	arr := h.NewLongArray(nil)
	_, err = env.GetStringUTFChars(arr)
	assert.ErrorIs(t, err, hostenv.ErrFieldType)
}

func TestLongArrays(t *testing.T) {
	h := New()
	env := h.Attach()
	arr := h.NewLongArray([]int64{1, 2, 3})

	n, err := env.GetArrayLength(arr)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	elems, err := env.GetLongArrayElements(arr)
	require.NoError(t, err)
	assert.Equal(t, 1, env.Pinned())
	elems[0] = 10

	require.NoError(t, env.ReleaseLongArrayElements(arr, elems, hostenv.ReleaseAbort))
	got, err := h.LongArray(arr)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, got, "abort must not copy back")

	elems, err = env.GetLongArrayElements(arr)
	require.NoError(t, err)
	elems[2] = 30
	require.NoError(t, env.ReleaseLongArrayElements(arr, elems, hostenv.ReleaseCommit))
	got, err = h.LongArray(arr)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 30}, got)
	assert.Zero(t, env.Pinned())

	err = env.ReleaseLongArrayElements(arr, elems, hostenv.ReleaseAbort)
	assert.ErrorIs(t, err, hostenv.ErrBadReference)
}

func TestReleaseWhilePending(t *testing.T) {
	h := New()
	env := h.Attach()
	arr := h.NewLongArray([]int64{1})

	elems, err := env.GetLongArrayElements(arr)
	require.NoError(t, err)
	_, err = env.FindClass("test/Missing")
	require.Error(t, err)

	assert.NoError(t, env.ReleaseLongArrayElements(arr, elems, hostenv.ReleaseAbort))
	assert.Zero(t, env.Pinned())
}

func TestObjectArrays(t *testing.T) {
	h := newTestHeap(t)
	env := h.Attach()
	shape := mustClass(t, env, shapeIface)

	arr, err := env.NewObjectArray(2, shape, hostenv.Null)
	require.NoError(t, err)
	name, err := h.ClassName(arr)
	require.NoError(t, err)
	assert.Equal(t, "[L"+shapeIface+";", name)

	c, err := env.NewObject(mustClass(t, env, circle), "()V")
	require.NoError(t, err)
	require.NoError(t, env.SetObjectArrayElement(arr, 1, c))

	got, err := env.GetObjectArrayElement(arr, 1)
	require.NoError(t, err)
	assert.Equal(t, c, got)
	got, err = env.GetObjectArrayElement(arr, 0)
	require.NoError(t, err)
	assert.True(t, got.IsNull())

	p, err := env.NewObject(mustClass(t, env, pointClass), "()V")
	require.NoError(t, err)
	err = env.SetObjectArrayElement(arr, 0, p)
	assert.ErrorIs(t, err, hostenv.ErrArrayStore)
	class, _, _ := env.Thrown()
	assert.Equal(t, ArrayStoreException, class)
	env.ExceptionClear()

	_, err = env.GetObjectArrayElement(arr, 2)
	assert.ErrorIs(t, err, hostenv.ErrIndexOutOfBounds)
	class, _, _ = env.Thrown()
	assert.Equal(t, ArrayIndexOutOfBoundsException, class)
	env.ExceptionClear()

	_, err = env.NewObjectArray(-1, shape, hostenv.Null)
	assert.ErrorIs(t, err, hostenv.ErrIndexOutOfBounds)
	env.ExceptionClear()

	_, err = env.NewObjectArray(1, shape, p)
	assert.ErrorIs(t, err, hostenv.ErrArrayStore)
	env.ExceptionClear()

	filled, err := env.NewObjectArray(3, shape, c)
	require.NoError(t, err)
	got, err = env.GetObjectArrayElement(filled, 2)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	holder := ClassDef{
		Name:   "test/Holder",
		Super:  ObjectClass,
		Fields: []FieldDef{{Name: "shapes", Sig: "[L" + shapeIface + ";"}, {Name: "ids", Sig: "[J"}},
		Ctors:  []CtorDef{{Sig: "()V"}},
	}
	h.MustDefine(holder)
	obj, err := env.NewObject(mustClass(t, env, holder.Name), "()V")
	require.NoError(t, err)
	assert.NoError(t, env.SetField(obj, "shapes", "[L"+shapeIface+";", hostenv.Object(arr)))
	assert.NoError(t, env.SetField(obj, "ids", "[J", hostenv.Object(h.NewLongArray(nil))))
	assert.Error(t, env.SetField(obj, "ids", "[J", hostenv.Object(arr)))
}

func TestThrowNew(t *testing.T) {
	h := newTestHeap(t)
	env := h.Attach()

	err := env.ThrowNew(mustClass(t, env, pointClass), "nope")
	assert.ErrorIs(t, err, hostenv.ErrFieldType)
	assert.False(t, env.ExceptionCheck())

	require.NoError(t, env.ThrowNew(mustClass(t, env, RuntimeException), "boom"))
	class, msg, ok := env.Thrown()
	require.True(t, ok)
	assert.Equal(t, RuntimeException, class)
	assert.Equal(t, "boom", msg)

	assert.ErrorIs(t, env.ThrowNew(hostenv.Null, "again"), hostenv.ErrPendingException)
}

func TestDetach(t *testing.T) {
	h := New()
	env := h.Attach()
	require.NoError(t, env.ThrowNew(mustClass(t, env, RuntimeException), "late"))
	env.Detach()

	_, err := env.NewString("x")
	assert.True(t, errors.Is(err, hostenv.ErrDetached))

	class, msg, ok := env.Thrown()
	require.True(t, ok, "the host still sees the exception after the call")
	assert.Equal(t, RuntimeException, class)
	assert.Equal(t, "late", msg)
	env.ExceptionClear()
	assert.False(t, env.ExceptionCheck())
}
