// Package trace records what the compiler is doing as a stream of span events.
//
// A driver opens a span per command, the compiler one per pass (parse, api,
// emit, symbols) and one per compiled file:
//
//	mapl build --trace=- --trace-level=detail scripts/main.mapl
//
// Tracers are carried through a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "emit", parent)
//	defer span.End("")
//
// StreamTracer writes each event as it happens; RingTracer keeps the last
// events in memory so a failed build can dump them.
package trace
