package bridge

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kurobaex/native-bridge/engine"
	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/schema"
)

// Config holds configuration for bridge creation
type Config struct {
	// ExceptionClass is the qualified host class thrown for failed calls.
	// Empty means java/lang/RuntimeException. It must have a
	// (Ljava/lang/String;)V constructor.
	ExceptionClass string
}

// Bridge marshals parseThreadPosts calls between host objects and a parser
// engine. It holds no per-call state and is safe for concurrent use with
// distinct Envs.
type Bridge struct {
	reg            *schema.Registry
	engine         engine.Engine
	exceptionClass string
}

// New creates a bridge over reg and eng.
func New(reg *schema.Registry, eng engine.Engine, cfg *Config) (*Bridge, error) {
	if reg == nil {
		return nil, errors.NotInitialized(errors.PhaseBoundary, "registry")
	}
	if eng == nil {
		return nil, errors.NotInitialized(errors.PhaseBoundary, "parser engine")
	}
	b := &Bridge{
		reg:            reg,
		engine:         eng,
		exceptionClass: reg.ClassName(schema.RuntimeException),
	}
	if cfg != nil && cfg.ExceptionClass != "" {
		b.exceptionClass = cfg.ExceptionClass
	}
	return b, nil
}

// Registry returns the registry the bridge resolves host types with.
func (b *Bridge) Registry() *schema.Registry {
	return b.reg
}

// Verify checks the host class path against the registry and the
// configured exception class. Run it once at startup.
func (b *Bridge) Verify(env hostenv.Env) error {
	err := b.reg.Verify(env)
	if _, ferr := env.FindClass(b.exceptionClass); ferr != nil {
		env.ExceptionClear()
		err = stderrors.Join(err, errors.HostConstruction(errors.PhaseRegistry, []string{"exception"}, b.exceptionClass, ferr))
	}
	return err
}

// ParseThreadPosts decodes a PostParserContext and a ThreadToParse, runs
// the engine and returns a ThreadParsed. On failure it returns Null with a
// host exception pending; it never panics.
func (b *Bridge) ParseThreadPosts(ctx context.Context, env hostenv.Env, parserContext, thread hostenv.Ref) hostenv.Ref {
	ctx, span := otel.Tracer("bridge").Start(ctx, "ParseThreadPosts", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	start := time.Now()
	defer func() {
		callDuration.Observe(time.Since(start).Seconds())
	}()

	ref, err := b.guard(env, func() (hostenv.Ref, error) {
		return b.parse(ctx, env, parserContext, thread)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", string(errors.KindOf(err))))
	}
	return ref
}

func (b *Bridge) parse(ctx context.Context, env hostenv.Env, parserContext, thread hostenv.Ref) (hostenv.Ref, error) {
	c := newCall(env, b.reg)

	pc, err := c.assembleContext(parserContext)
	if err != nil {
		return hostenv.Null, err
	}
	raw, err := c.assembleThread(thread)
	if err != nil {
		return hostenv.Null, err
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("site", pc.SiteName),
		attribute.String("board", pc.BoardCode),
		attribute.Int64("thread", int64(pc.ThreadID)),
		attribute.Int("posts", len(raw.Posts)),
	)

	parsed, err := b.engine.ParseThread(ctx, pc, raw)
	if err != nil {
		if errors.KindOf(err) == "" {
			err = errors.Wrap(errors.PhaseEngine, errors.KindEngineContract, err, "parser engine failed")
		}
		return hostenv.Null, err
	}
	if err := engine.CheckAligned(raw, parsed); err != nil {
		return hostenv.Null, err
	}

	result, err := c.assembleResponse(pc, raw, parsed)
	if err != nil {
		return hostenv.Null, err
	}

	Logger().Debug("thread parsed",
		zap.String("site", pc.SiteName),
		zap.String("board", pc.BoardCode),
		zap.Uint64("thread", pc.ThreadID),
		zap.Int("posts", len(raw.Posts)))
	return result, nil
}
