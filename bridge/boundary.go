package bridge

import (
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/hostenv"
	"github.com/kurobaex/native-bridge/schema"
)

// guard runs body and converts any failure, including a panic, into
// exactly one pending host exception. On failure it returns Null and the
// error that was raised.
func (b *Bridge) guard(env hostenv.Env, body func() (hostenv.Ref, error)) (hostenv.Ref, error) {
	ref, err := capture(body)
	if err == nil {
		callsTotal.WithLabelValues("ok").Inc()
		return ref, nil
	}
	callsTotal.WithLabelValues("error").Inc()
	b.raise(env, err)
	return hostenv.Null, err
}

func capture(body func() (hostenv.Ref, error)) (ref hostenv.Ref, err error) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("recovered panic in bridge call", zap.Any("panic", r), zap.Stack("stack"))
			ref, err = hostenv.Null, errors.InternalFault(errors.PhaseBoundary, r)
		}
	}()
	return body()
}

// raise throws err as the configured exception class. An exception already
// pending on env is left as the single one the host sees.
func (b *Bridge) raise(env hostenv.Env, err error) {
	kind := errors.KindOf(err)
	if kind == "" {
		kind = errors.KindInternalFault
	}
	faultsTotal.WithLabelValues(string(kind)).Inc()
	if kind == errors.KindInternalFault || kind == errors.KindHostConstruction {
		sentry.CaptureException(err)
	}

	defer func() {
		if r := recover(); r != nil {
			Logger().Error("failed to raise host exception",
				zap.Error(err), zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	if env.ExceptionCheck() {
		Logger().Debug("host exception already pending", zap.Error(err))
		return
	}

	cls, ferr := env.FindClass(b.exceptionClass)
	if ferr != nil {
		env.ExceptionClear()
		fallback := b.reg.ClassName(schema.RuntimeException)
		Logger().Warn("exception class not found, using fallback",
			zap.String("class", b.exceptionClass),
			zap.String("fallback", fallback),
			zap.Error(ferr))
		if cls, ferr = env.FindClass(fallback); ferr != nil {
			Logger().Error("cannot raise host exception", zap.Error(err), zap.NamedError("lookup", ferr))
			return
		}
	}

	if terr := env.ThrowNew(cls, err.Error()); terr != nil {
		Logger().Error("cannot raise host exception", zap.Error(err), zap.NamedError("throw", terr))
		return
	}
	Logger().Debug("raised host exception", zap.String("class", b.exceptionClass), zap.Error(err))
}
