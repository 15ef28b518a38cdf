package main

import (
	"context"
	"fmt"
	"os"

	"github.com/carlmjohnson/versioninfo"
	"github.com/urfave/cli/v2"

	nativebridge "github.com/kurobaex/native-bridge"
	"github.com/kurobaex/native-bridge/classpath"
	"github.com/kurobaex/native-bridge/config"
	"github.com/kurobaex/native-bridge/hostenv/heap"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var engineFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "engine-wasm",
		Usage:   "path to a WebAssembly parser module (default: built-in plain text engine)",
		EnvVars: []string{config.EnvEngineWASM},
	},
	&cli.StringFlag{
		Name:    "exception-class",
		Usage:   "host exception class thrown on failure",
		EnvVars: []string{config.EnvExceptionClass},
	},
}

func run(args []string) error {
	return newApp().Run(args)
}

func newApp() *cli.App {
	app := &cli.App{
		Name:    "chanparse",
		Usage:   "run imageboard threads through the native post parsing bridge",
		Version: versioninfo.Short(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{config.EnvLogLevel},
			},
		},
		After: func(*cli.Context) error {
			nativebridge.Shutdown()
			return nil
		},
	}
	app.Commands = []*cli.Command{
		cmdParse,
		cmdSchema,
		cmdInteractive,
	}
	return app
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig(cctx *cli.Context) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if v := cctx.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := cctx.String("engine-wasm"); v != "" {
		cfg.EngineWASM = v
	}
	if v := cctx.String("exception-class"); v != "" {
		cfg.ExceptionClass = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nativebridge.Init(cfg)
}

// session is a host heap with the bridge classes installed, checked against
// the library once.
type session struct {
	lib  *nativebridge.Library
	heap *heap.Heap
}

func newSession(lib *nativebridge.Library) (*session, error) {
	h := heap.New()
	if err := classpath.Install(h, lib.Registry()); err != nil {
		return nil, err
	}
	env := h.Attach()
	defer env.Detach()
	if err := lib.Verify(env); err != nil {
		return nil, fmt.Errorf("class path check failed: %w", err)
	}
	return &session{lib: lib, heap: h}, nil
}

func (s *session) call(ctx context.Context, req *classpath.Request) (*classpath.ThreadParsed, error) {
	return classpath.Call(ctx, s.heap, s.lib.Registry(), s.lib, req)
}
