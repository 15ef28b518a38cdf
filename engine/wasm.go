package engine

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/kurobaex/native-bridge/errors"
	"github.com/kurobaex/native-bridge/model"
)

const (
	exportMemory = "memory"
	exportAlloc  = "alloc"
	exportParse  = "parse"
)

// WASMConfig holds configuration for WASM engine creation
type WASMConfig struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// WASM runs a parser engine compiled to a WebAssembly core module.
type WASM struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
}

var _ Engine = (*WASM)(nil)

// wasmRequest is the msgpack payload handed to the guest.
type wasmRequest struct {
	Context *model.ParserContext `msgpack:"context"`
	Posts   []model.RawPost      `msgpack:"posts"`
}

// LoadWASM reads and compiles a parser module from path.
func LoadWASM(ctx context.Context, path string, cfg *WASMConfig) (*WASM, error) {
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindNotFound, err, "read parser module")
	}
	return NewWASM(ctx, bin, cfg)
}

// NewWASM compiles wasmBytes and checks it exports the parser ABI.
func NewWASM(ctx context.Context, wasmBytes []byte, cfg *WASMConfig) (*WASM, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindInvalidInput, err, "compile parser module")
	}
	if err := checkExports(compiled); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	Logger().Debug("parser module compiled", zap.Int("size", len(wasmBytes)))
	return &WASM{runtime: rt, compiled: compiled}, nil
}

func checkExports(m wazero.CompiledModule) error {
	if _, ok := m.ExportedMemories()[exportMemory]; !ok {
		return errors.NotFound(errors.PhaseEngine, "export", exportMemory)
	}
	fns := m.ExportedFunctions()
	want := []struct {
		name    string
		params  []api.ValueType
		results []api.ValueType
	}{
		{exportAlloc, []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}},
		{exportParse, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI64}},
	}
	for _, w := range want {
		def, ok := fns[w.name]
		if !ok {
			return errors.NotFound(errors.PhaseEngine, "export", w.name)
		}
		if !slices.Equal(def.ParamTypes(), w.params) || !slices.Equal(def.ResultTypes(), w.results) {
			return errors.New(errors.PhaseEngine, errors.KindTypeMismatch).
				Path(w.name).
				Detail("export %s has signature %v -> %v", w.name, def.ParamTypes(), def.ResultTypes()).
				Build()
		}
	}
	return nil
}

// ParseThread instantiates the module, passes it the request and decodes
// its result. The instance is closed before returning.
func (w *WASM) ParseThread(ctx context.Context, pc *model.ParserContext, thread *model.RawThread) ([]*model.ParsedPost, error) {
	req, err := msgpack.Marshal(&wasmRequest{Context: pc, Posts: thread.Posts})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindInvalidInput, err, "encode parser request")
	}

	mod, err := w.runtime.InstantiateModule(ctx, w.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindInternalFault, err, "instantiate parser module")
	}
	defer mod.Close(ctx)

	res, err := mod.ExportedFunction(exportAlloc).Call(ctx, uint64(len(req)))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindInternalFault, err, "alloc")
	}
	ptr := uint32(res[0])
	if !mod.Memory().Write(ptr, req) {
		return nil, errors.EngineContract("alloc returned %#x, request of %d bytes does not fit", ptr, len(req))
	}

	res, err = mod.ExportedFunction(exportParse).Call(ctx, uint64(ptr), uint64(len(req)))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindInternalFault, err, "parse")
	}
	outPtr, outLen := uint32(res[0]>>32), uint32(res[0])
	out, ok := mod.Memory().Read(outPtr, outLen)
	if !ok {
		return nil, errors.EngineContract("parse result [%#x, +%d) is out of memory bounds", outPtr, outLen)
	}

	var posts []*model.ParsedPost
	if err := msgpack.Unmarshal(out, &posts); err != nil {
		return nil, errors.Wrap(errors.PhaseEngine, errors.KindEngineContract, err, "decode parse result")
	}

	Logger().Debug("parser module call",
		zap.Int("posts", len(thread.Posts)),
		zap.Int("request_bytes", len(req)),
		zap.Uint32("result_bytes", outLen))
	return posts, nil
}

// Close releases the runtime and the compiled module.
func (w *WASM) Close(ctx context.Context) error {
	if err := w.runtime.Close(ctx); err != nil {
		return fmt.Errorf("close parser runtime: %w", err)
	}
	return nil
}
