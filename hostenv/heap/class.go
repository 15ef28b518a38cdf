package heap

import (
	"fmt"

	"github.com/kurobaex/native-bridge/hostenv"
)

const (
	ObjectClass    = "java/lang/Object"
	StringClass    = "java/lang/String"
	ThrowableClass = "java/lang/Throwable"

	NoClassDefFoundError           = "java/lang/NoClassDefFoundError"
	NoSuchFieldError               = "java/lang/NoSuchFieldError"
	NoSuchMethodError              = "java/lang/NoSuchMethodError"
	NullPointerException           = "java/lang/NullPointerException"
	ArrayIndexOutOfBoundsException = "java/lang/ArrayIndexOutOfBoundsException"
	ArrayStoreException            = "java/lang/ArrayStoreException"
	IllegalArgumentException       = "java/lang/IllegalArgumentException"
	RuntimeException               = "java/lang/RuntimeException"
)

// FieldDef declares an instance field.
type FieldDef struct {
	Name string
	Sig  string
}

// CtorDef declares a constructor. Arguments are assigned, in order, to the
// named Fields. Check runs before assignment with the arguments converted to
// Go values (int64, int32, bool, string for host strings, hostenv.Ref
// otherwise); a non-nil error is thrown as IllegalArgumentException.
type CtorDef struct {
	Check  func(args []any) error
	Sig    string
	Fields []string
}

// ClassDef declares a host class.
type ClassDef struct {
	Name       string
	Super      string
	Interfaces []string
	Fields     []FieldDef
	Ctors      []CtorDef
	Interface  bool
}

type class struct {
	ctors  map[string]CtorDef
	fields map[string]string
	// supertypes holds every class and interface name this class can be
	// assigned to, including itself.
	supertypes map[string]struct{}
	name       string
	ref        hostenv.Ref
	iface      bool
}

func (c *class) assignableTo(name string) bool {
	if name == ObjectClass {
		return true
	}
	_, ok := c.supertypes[name]
	return ok
}

func (c *class) isThrowable() bool {
	return c.assignableTo(ThrowableClass)
}

// Define registers a class. Super classes and interfaces must already be
// defined.
func (h *Heap) Define(def ClassDef) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.defineLocked(def)
}

// MustDefine is Define that panics on error, for fixtures.
func (h *Heap) MustDefine(defs ...ClassDef) {
	for _, def := range defs {
		if err := h.Define(def); err != nil {
			panic(err)
		}
	}
}

func (h *Heap) defineLocked(def ClassDef) error {
	if def.Name == "" {
		return fmt.Errorf("heap: class name is empty")
	}
	if _, exists := h.classes[def.Name]; exists {
		return fmt.Errorf("heap: class %s already defined", def.Name)
	}

	c := &class{
		name:       def.Name,
		iface:      def.Interface,
		fields:     make(map[string]string),
		ctors:      make(map[string]CtorDef),
		supertypes: map[string]struct{}{def.Name: {}},
	}

	parents := def.Interfaces
	if def.Super != "" {
		parents = append([]string{def.Super}, def.Interfaces...)
	}
	for _, p := range parents {
		pc, ok := h.classes[p]
		if !ok {
			return fmt.Errorf("heap: %s extends undefined %s", def.Name, p)
		}
		for name := range pc.supertypes {
			c.supertypes[name] = struct{}{}
		}
		for name, sig := range pc.fields {
			c.fields[name] = sig
		}
	}

	for _, f := range def.Fields {
		if _, err := hostenv.KindOfSig(f.Sig); err != nil {
			return fmt.Errorf("heap: %s.%s: %w", def.Name, f.Name, err)
		}
		c.fields[f.Name] = f.Sig
	}

	for _, ctor := range def.Ctors {
		params, ret, err := hostenv.ParseMethodSig(ctor.Sig)
		if err != nil {
			return fmt.Errorf("heap: %s.<init>: %w", def.Name, err)
		}
		if ret != "V" {
			return fmt.Errorf("heap: %s.<init>%s must return V", def.Name, ctor.Sig)
		}
		if len(params) != len(ctor.Fields) {
			return fmt.Errorf("heap: %s.<init>%s maps %d params to %d fields", def.Name, ctor.Sig, len(params), len(ctor.Fields))
		}
		for i, name := range ctor.Fields {
			if c.fields[name] != params[i] {
				return fmt.Errorf("heap: %s.<init>%s param %d does not match field %s:%s", def.Name, ctor.Sig, i, name, c.fields[name])
			}
		}
		c.ctors[ctor.Sig] = ctor
	}

	c.ref = h.allocLocked(&object{kind: kindClass, meta: c})
	h.classes[def.Name] = c
	return nil
}

func (h *Heap) defineBuiltins() {
	throwable := func(name, super string) ClassDef {
		return ClassDef{
			Name:  name,
			Super: super,
			Ctors: []CtorDef{
				{Sig: "()V"},
				{Sig: "(Ljava/lang/String;)V", Fields: []string{"message"}},
			},
		}
	}

	h.MustDefine(
		ClassDef{Name: ObjectClass},
		ClassDef{Name: StringClass, Super: ObjectClass},
		ClassDef{
			Name:   ThrowableClass,
			Super:  ObjectClass,
			Fields: []FieldDef{{Name: "message", Sig: "Ljava/lang/String;"}},
			Ctors: []CtorDef{
				{Sig: "()V"},
				{Sig: "(Ljava/lang/String;)V", Fields: []string{"message"}},
			},
		},
		throwable("java/lang/Error", ThrowableClass),
		throwable("java/lang/LinkageError", "java/lang/Error"),
		throwable(NoClassDefFoundError, "java/lang/LinkageError"),
		throwable("java/lang/IncompatibleClassChangeError", "java/lang/LinkageError"),
		throwable(NoSuchFieldError, "java/lang/IncompatibleClassChangeError"),
		throwable(NoSuchMethodError, "java/lang/IncompatibleClassChangeError"),
		throwable("java/lang/Exception", ThrowableClass),
		throwable(RuntimeException, "java/lang/Exception"),
		throwable(NullPointerException, RuntimeException),
		throwable(IllegalArgumentException, RuntimeException),
		throwable("java/lang/IllegalStateException", RuntimeException),
		throwable("java/lang/IndexOutOfBoundsException", RuntimeException),
		throwable(ArrayIndexOutOfBoundsException, "java/lang/IndexOutOfBoundsException"),
		throwable(ArrayStoreException, RuntimeException),
	)
}
