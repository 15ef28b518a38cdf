package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	nativebridge "github.com/kurobaex/native-bridge"
	"github.com/kurobaex/native-bridge/classpath"
)

var cmdParse = &cli.Command{
	Name:      "parse",
	Usage:     "parse thread request files and print the parsed posts",
	ArgsUsage: "<request.json>... (- or nothing for stdin)",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print results as JSON",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "requests parsed in parallel",
			Value:   runtime.NumCPU(),
		},
	}, engineFlags...),
	Action: runParse,
}

type parseResult struct {
	Path   string                  `json:"path"`
	Result *classpath.ThreadParsed `json:"result,omitempty"`
	Error  string                  `json:"error,omitempty"`
	err    error
}

func runParse(cctx *cli.Context) error {
	ctx := cctx.Context
	cfg, err := loadConfig(cctx)
	if err != nil {
		return err
	}
	lib, err := nativebridge.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer lib.Close(ctx)

	paths := cctx.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	if slices.Contains(paths[slices.Index(paths, "-")+1:], "-") {
		return fmt.Errorf("stdin (-) can be read only once")
	}

	results := make([]parseResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cctx.Int("jobs"), 1))
	for i, path := range paths {
		g.Go(func() error {
			res, err := parseFile(gctx, lib, cctx.App.Reader, path)
			results[i] = parseResult{Path: path, Result: res, err: err}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}

	if cctx.Bool("json") {
		enc := json.NewEncoder(cctx.App.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		out := newRenderer(cctx.App.Writer)
		for _, r := range results {
			if r.err != nil {
				out.failure(r.Path, r.err)
				continue
			}
			out.thread(r.Path, r.Result)
		}
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d requests failed", failed, len(results)), 1)
	}
	return nil
}

// parseFile runs one request on its own heap. Path "-" reads stdin.
func parseFile(ctx context.Context, lib *nativebridge.Library, stdin io.Reader, path string) (*classpath.ThreadParsed, error) {
	var (
		req *classpath.Request
		err error
	)
	if path == "-" {
		req, err = classpath.DecodeRequest(stdin)
	} else {
		req, err = classpath.LoadRequest(path)
	}
	if err != nil {
		return nil, err
	}

	s, err := newSession(lib)
	if err != nil {
		return nil, err
	}
	return s.call(ctx, req)
}
