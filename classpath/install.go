// Package classpath defines the host classes the bridge targets and does
// the host-side work around a bridge call: building request objects before
// it and reading the result graph back after it.
package classpath

import (
	"fmt"

	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/hostenv/heap"
	"github.com/kurobaex/native-bridge/schema"
)

type installConfig struct {
	skipTypes  map[schema.Type]bool
	skipFields map[schema.FieldSpec]bool
}

// Option adjusts Install. The options exist to reproduce schema drift
// between the host and the bridge.
type Option func(*installConfig)

// Without leaves the given types undefined.
func Without(types ...schema.Type) Option {
	return func(c *installConfig) {
		for _, t := range types {
			c.skipTypes[t] = true
		}
	}
}

// WithoutFields leaves the given fields off their classes. Constructors
// initialising them are dropped too.
func WithoutFields(fields ...schema.FieldSpec) Option {
	return func(c *installConfig) {
		for _, f := range fields {
			c.skipFields[f] = true
		}
	}
}

// Install defines every class in schema.Types on h. java/lang classes are
// built into the heap and are left alone.
func Install(h *heap.Heap, reg *schema.Registry, opts ...Option) error {
	cfg := installConfig{
		skipTypes:  make(map[schema.Type]bool),
		skipFields: make(map[schema.FieldSpec]bool),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Variants implement the interface, so it goes first.
	order := append([]schema.Type{schema.SpannableData}, schema.Types...)
	defined := make(map[schema.Type]bool, len(order))

	for _, t := range order {
		if t.Subsystem == schema.Lang || defined[t] || cfg.skipTypes[t] {
			continue
		}
		defined[t] = true
		if err := h.Define(classDef(reg, t, &cfg)); err != nil {
			return fmt.Errorf("classpath: define %s: %w", t, err)
		}
	}
	return nil
}

func classDef(reg *schema.Registry, t schema.Type, cfg *installConfig) heap.ClassDef {
	def := heap.ClassDef{
		Name:      reg.ClassName(t),
		Super:     heap.ObjectClass,
		Interface: t == schema.SpannableData,
	}
	if _, isVariant := reg.SpanKindOf(def.Name); isVariant {
		def.Interfaces = []string{reg.ClassName(schema.SpannableData)}
	}

	for _, f := range schema.FieldsOf(t) {
		if cfg.skipFields[f] {
			continue
		}
		def.Fields = append(def.Fields, heap.FieldDef{Name: f.Name, Sig: reg.FieldSig(f)})
	}

	hasNoArg := false
ctors:
	for _, c := range schema.CtorsOf(t) {
		names := make([]string, len(c.Fields))
		for i, f := range c.Fields {
			if cfg.skipFields[f] {
				continue ctors
			}
			names[i] = f.Name
		}
		sig := reg.CtorSig(c)
		hasNoArg = hasNoArg || len(c.Fields) == 0
		def.Ctors = append(def.Ctors, heap.CtorDef{Sig: sig, Fields: names, Check: ctorChecks[t]})
	}

	// Request and envelope classes are plain data holders.
	if !hasNoArg && !def.Interface && (t.Subsystem == schema.PostParsing || t == schema.PostCommentSpannable) {
		def.Ctors = append(def.Ctors, heap.CtorDef{Sig: schema.Method("V")})
	}
	return def
}

// ctorChecks mirror the argument validation of the host descriptor
// constructors.
var ctorChecks = map[schema.Type]func(args []any) error{
	schema.SiteDescriptor: func(args []any) error {
		return nonEmpty("siteName", args[0])
	},
	schema.BoardDescriptor: func(args []any) error {
		if err := nonNull("siteDescriptor", args[0]); err != nil {
			return err
		}
		return nonEmpty("boardCode", args[1])
	},
	schema.ThreadDescriptor: func(args []any) error {
		if err := nonNull("boardDescriptor", args[0]); err != nil {
			return err
		}
		return positive("threadNo", args[1])
	},
	schema.PostDescriptor: func(args []any) error {
		if err := nonNull("threadDescriptor", args[0]); err != nil {
			return err
		}
		if err := positive("postNo", args[1]); err != nil {
			return err
		}
		if sub, _ := args[2].(int64); sub < 0 {
			return fmt.Errorf("postSubNo must not be negative, got %d", sub)
		}
		return nil
	},
}

func nonEmpty(name string, arg any) error {
	if s, ok := arg.(string); !ok || s == "" {
		return fmt.Errorf("%s must not be empty", name)
	}
	return nil
}

func nonNull(name string, arg any) error {
	if r, ok := arg.(hostenv.Ref); ok && r.IsNull() {
		return fmt.Errorf("%s must not be null", name)
	}
	return nil
}

func positive(name string, arg any) error {
	if n, _ := arg.(int64); n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
