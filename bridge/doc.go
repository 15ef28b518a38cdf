// Package bridge implements the parseThreadPosts entry point between a
// host object graph and a parser engine.
//
// A call runs in three stages on the caller's hostenv.Env:
//
//	decode   PostParserContext and ThreadToParse into model values
//	parse    the engine, one result per post, checked for alignment
//	encode   ThreadParsed, PostParsed, descriptors and spannables
//
// Posts without a comment, or that the engine could not parse, are returned
// as null elements at their original index. A comment that cannot be
// decoded degrades its post to "no comment" and is reported through a
// warning and the chanparse_bridge_comments_degraded counter.
//
// ParseThreadPosts never panics and never returns an error value. Every
// failure, recovered panics included, surfaces as exactly one pending host
// exception with a Null result. The exception class defaults to
// java/lang/RuntimeException and is configurable through Config.
//
// Class and field names come from a *schema.Registry. Call Bridge.Verify
// once at startup to catch drift between the registry and the host class
// path before the first call.
package bridge
