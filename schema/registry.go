package schema

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/model"
)

// Namespaces are the slash-separated packages of each subsystem. Lang is
// always java/lang.
type Namespaces struct {
	PostParsing string `validate:"required"`
	Spannable   string `validate:"required"`
	Descriptor  string `validate:"required"`
}

const langNamespace = "java/lang"

// DefaultNamespaces returns the namespaces of the Kuroba host classes.
func DefaultNamespaces() Namespaces {
	const postParsing = "com/github/k1rakishou/chan/core/lib/data/post_parsing"
	return Namespaces{
		PostParsing: postParsing,
		Spannable:   postParsing + "/spannable",
		Descriptor:  "com/github/k1rakishou/model/data/descriptor",
	}
}

func (ns Namespaces) of(s Subsystem) string {
	switch s {
	case PostParsing:
		return ns.PostParsing
	case Spannable:
		return ns.Spannable
	case Descriptor:
		return ns.Descriptor
	default:
		return langNamespace
	}
}

// Registry resolves logical types to host class names and signatures. It
// is immutable after New and safe for concurrent use.
type Registry struct {
	names  map[Type]string
	byName map[string]Type
	spans  map[string]model.SpanKind
	ns     Namespaces
}

// New compiles every declared type against ns and checks the declarations
// are complete and consistent.
func New(ns Namespaces) (*Registry, error) {
	for _, s := range []Subsystem{PostParsing, Spannable, Descriptor} {
		name := ns.of(s)
		if name == "" || strings.ContainsAny(name, ". ") || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
			return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidInput).
				Path(s.String()).
				Detail("namespace %q must be a non-empty slash-separated package", name).
				Build()
		}
	}

	r := &Registry{
		ns:     ns,
		names:  make(map[Type]string, len(Types)),
		byName: make(map[string]Type, len(Types)),
		spans:  make(map[string]model.SpanKind, model.NumSpanKinds),
	}
	for _, t := range Types {
		if t.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("unnamed %s type", t.Subsystem))
		}
		name := ns.of(t.Subsystem) + "/" + t.Name
		if prev, dup := r.byName[name]; dup {
			return nil, errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("%s and %s both resolve to %s", prev, t, name))
		}
		r.names[t] = name
		r.byName[name] = t
	}

	for k := 0; k < model.NumSpanKinds; k++ {
		kind := model.SpanKind(k)
		t := SpannableVariants[k]
		if t.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("span kind %s has no host type", kind))
		}
		if SpannableCtors[k].Owner != t {
			return nil, errors.InvalidInput(errors.PhaseRegistry, fmt.Sprintf("span kind %s constructor belongs to %s", kind, SpannableCtors[k].Owner))
		}
		r.spans[r.names[t]] = kind
	}

	for _, f := range Fields {
		if err := r.checkRef(f.Ref); err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", f.Owner.Name, f.Name, err)
		}
		if _, ok := r.names[f.Owner]; !ok {
			return nil, errors.NotFound(errors.PhaseRegistry, "field owner", f.Owner.String())
		}
	}
	return r, nil
}

// MustNew is New for the default namespaces; it panics if the declarations
// are inconsistent.
func MustNew() *Registry {
	r, err := New(DefaultNamespaces())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) checkRef(ref Ref) error {
	if ref.Prim != "" {
		if _, err := hostenv.KindOfSig(ref.Prim); err != nil {
			return errors.Wrap(errors.PhaseRegistry, errors.KindInvalidInput, err, "bad primitive descriptor")
		}
		return nil
	}
	if _, ok := r.names[ref.Type]; !ok {
		return errors.NotFound(errors.PhaseRegistry, "type", ref.Type.String())
	}
	return nil
}

func (r *Registry) Namespaces() Namespaces {
	return r.ns
}

// ClassName returns the qualified class name of t, e.g.
// "com/github/k1rakishou/model/data/descriptor/SiteDescriptor".
func (r *Registry) ClassName(t Type) string {
	if name, ok := r.names[t]; ok {
		return name
	}
	return r.ns.of(t.Subsystem) + "/" + t.Name
}

// Signature returns the type descriptor of t, "L<class>;".
func (r *Registry) Signature(t Type) string {
	return "L" + r.ClassName(t) + ";"
}

// Prefixed returns Signature(t) with prefix prepended, e.g. "[" for arrays.
func (r *Registry) Prefixed(prefix string, t Type) string {
	return prefix + r.Signature(t)
}

// ArraySignature returns the descriptor of an array of t.
func (r *Registry) ArraySignature(t Type) string {
	return r.Prefixed("[", t)
}

// RefSig returns the descriptor of a field or parameter type.
func (r *Registry) RefSig(ref Ref) string {
	switch {
	case ref.Prim != "":
		return ref.Prim
	case ref.Array:
		return r.ArraySignature(ref.Type)
	default:
		return r.Signature(ref.Type)
	}
}

func (r *Registry) FieldSig(f FieldSpec) string {
	return r.RefSig(f.Ref)
}

// CtorSig returns the method descriptor of c, e.g. "(Ljava/lang/String;J)V".
func (r *Registry) CtorSig(c CtorSpec) string {
	params := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		params[i] = r.FieldSig(f)
	}
	return Method("V", params...)
}

// Method builds a method descriptor from parameter descriptors and a
// return descriptor.
func Method(ret string, params ...string) string {
	return "(" + strings.Join(params, "") + ")" + ret
}

// TypeOf is the inverse of ClassName for declared types.
func (r *Registry) TypeOf(className string) (Type, bool) {
	t, ok := r.byName[className]
	return t, ok
}

// SpanKindOf returns the span kind carried by a variant class.
func (r *Registry) SpanKindOf(className string) (model.SpanKind, bool) {
	k, ok := r.spans[className]
	return k, ok
}

// Verify checks, once at startup, that every declared class resolves in
// the host and every field and constructor the bridge uses exists with the
// declared signature. Missing optional fields are not an error. All
// problems are reported together; exceptions raised by the lookups are
// cleared.
func (r *Registry) Verify(env hostenv.Env) error {
	var errs []error
	classes := make(map[Type]hostenv.Ref, len(Types))

	for _, t := range Types {
		name := r.ClassName(t)
		cls, err := env.FindClass(name)
		if err != nil {
			env.ExceptionClear()
			errs = append(errs, errors.HostConstruction(errors.PhaseRegistry, []string{t.Name}, name, err))
			continue
		}
		classes[t] = cls
	}

	for _, f := range Fields {
		cls, ok := classes[f.Owner]
		if !ok {
			continue
		}
		sig := r.FieldSig(f)
		if err := env.CheckField(cls, f.Name, sig); err != nil {
			env.ExceptionClear()
			if f.Optional && stderrors.Is(err, hostenv.ErrNoSuchField) {
				continue
			}
			errs = append(errs, errors.HostConstruction(errors.PhaseRegistry, []string{f.Owner.Name, f.Name}, r.ClassName(f.Owner), err))
		}
	}

	for _, c := range Ctors {
		cls, ok := classes[c.Owner]
		if !ok {
			continue
		}
		sig := r.CtorSig(c)
		if err := env.CheckConstructor(cls, sig); err != nil {
			env.ExceptionClear()
			errs = append(errs, errors.HostConstruction(errors.PhaseRegistry, []string{c.Owner.Name, "<init>" + sig}, r.ClassName(c.Owner), err))
		}
	}

	return stderrors.Join(errs...)
}
