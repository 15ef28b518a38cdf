// Package nativebridge is the native half of a post comment parser: it
// receives thread posts as host objects, runs a parser engine over them and
// hands back a graph of parsed posts, descriptors and spannables.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	nativebridge/        Process setup: logging, error reporting, bridge assembly
//	├── bridge/          The parseThreadPosts boundary: decode, parse, encode
//	├── schema/          Host class names, fields and constructor signatures
//	├── model/           Native values, including the spannable union
//	├── engine/          Parser engine contract, WASM engine on wazero
//	│   └── plaintext/   Built-in engine for quotes, links and BBCode
//	├── hostenv/         JNI-like host environment contract
//	│   ├── heap/        In-process host heap implementing hostenv.Env
//	│   └── mutf8/       Modified UTF-8 codec
//	├── classpath/       Host class definitions and request/result helpers
//	├── config/          Environment and .env settings
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := nativebridge.Init(cfg); err != nil {
//	    log.Fatal(err)
//	}
//	defer nativebridge.Shutdown()
//
//	lib, err := nativebridge.Open(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Close(ctx)
//
//	if err := lib.Verify(env); err != nil {
//	    log.Fatal(err)
//	}
//	result := lib.ParseThreadPosts(ctx, env, parserContext, thread)
//
// # Failure Model
//
// ParseThreadPosts never lets a Go error or panic cross into the host. A
// failed call returns a null reference with exactly one host exception
// pending; see package bridge.
package nativebridge
