/*
Package tools provides the instrumented execution layer shared by every
crewkit tool: schema-driven argument validation, TTL result caching and
per-tool execution metrics.

Tool authors implement the small types.Tool interface and wrap it with
NewInstrumented; the wrapper handles everything else. Validation failures
surface as validation-kind ToolErrors before the tool runs; failures inside
the tool surface as execution-kind ToolErrors with the original cause
attached.

Caching is pluggable through the Store interface. MemoryStore keeps results
in process; RedisStore shares them across processes. Keys are derived from
the tool name and the normalized argument set, so argument order never
matters.

A Registry collects wrapped tools with optional per-tool rate limits, and an
Executor dispatches batches of ToolCalls concurrently.

	reader := file.NewReaderTool(file.DefaultReaderConfig(), logger)
	out, err := reader.Invoke(ctx, types.Args{"file_path": "notes.txt"})
	snap := reader.Metrics() // execution counts, failures, average duration
*/
package tools
