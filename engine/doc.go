// Package engine defines the parser engine contract and its adapters.
//
// The bridge hands an Engine the decoded request and expects back one
// *model.ParsedPost per input post, aligned by index:
//
//	Func       - a plain function as an Engine
//	PerPost    - an Engine built from a per-post parse(context, post) function
//	WASM       - an engine compiled to a WebAssembly core module, run on wazero
//
// # WASM guest ABI
//
// The module must export:
//
//	memory                         linear memory
//	alloc(size i32) -> i32         reserve size bytes, return the pointer
//	parse(ptr i32, len i32) -> i64 parse the request at ptr, return
//	                               resultPtr<<32 | resultLen
//
// The request is a msgpack map {context, posts}; the result is a msgpack
// array of ParsedPost (nil for unparsable posts). The module is compiled
// once; every call gets its own instance, so a WASM engine is safe for
// concurrent use.
//
// CheckAligned verifies an engine result against its request and is run by
// the bridge after every call.
package engine
