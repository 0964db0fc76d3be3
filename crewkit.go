// Package crewkit provides a top-level convenience entry point for building
// a tool registry with minimal boilerplate.
//
// Usage:
//
//	import "github.com/crewkit/crewkit"
//
//	registry, err := crewkit.NewRegistry(logger)
//	out, err := crewkit.Must(registry.Get("text_analyzer")).Invoke(ctx, types.Args{"text": doc})
//
// Tools that need credentials (web search, Wolfram Alpha) are constructed
// directly from their packages and added with registry.Register.
package crewkit

import (
	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/tools/file"
	"github.com/crewkit/crewkit/tools/text"
)

// NewRegistry creates a registry pre-populated with every tool that needs no
// credentials: file reader/writer/lister/validator and the text analyzer,
// cleaner and summarizer.
func NewRegistry(logger *zap.Logger, opts ...tools.Option) (*tools.Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := tools.NewRegistry(logger)

	builtins := []*tools.Instrumented{
		file.NewReaderTool(file.DefaultReaderConfig(), logger, opts...),
		file.NewWriterTool(logger, opts...),
		file.NewListTool(logger, opts...),
		file.NewValidatorTool(logger, opts...),
		text.NewAnalyzerTool(text.DefaultAnalyzerConfig(), logger, opts...),
		text.NewCleanerTool(logger, opts...),
		text.NewSummarizerTool(logger, opts...),
	}
	for _, tool := range builtins {
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Must panics on err; it keeps examples and wiring code short.
func Must(tool *tools.Instrumented, err error) *tools.Instrumented {
	if err != nil {
		panic(err)
	}
	return tool
}
