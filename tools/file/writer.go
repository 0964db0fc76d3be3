package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

type writerTool struct{}

// NewWriterTool creates an instrumented file writer. Writing has side
// effects, so results are never cached.
func NewWriterTool(logger *zap.Logger, opts ...tools.Option) *tools.Instrumented {
	opts = append([]tools.Option{tools.WithLogger(logger)}, opts...)
	return tools.NewInstrumented(&writerTool{}, opts...)
}

func (t *writerTool) Name() string { return "file_writer" }

func (t *writerTool) Description() string {
	return "Writes content to a file path. Refuses to overwrite existing " +
		"files unless overwrite is set. Use this to save generated content, " +
		"reports or processed data."
}

func (t *writerTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("file_path", types.StringParam("Path where to write the file", true)).
		Add("content", types.StringParam("Content to write to the file", true)).
		Add("overwrite", types.BoolParam("Whether to overwrite an existing file", false).
			WithDefault(false))
}

func (t *writerTool) Cacheable() bool { return false }

func (t *writerTool) Execute(_ context.Context, args types.Args) (string, error) {
	path := args["file_path"].(string)
	content := args["content"].(string)
	overwrite := args["overwrite"].(bool)

	if _, err := os.Stat(path); err == nil && !overwrite {
		return "", types.NewValidationError(t.Name(),
			fmt.Sprintf("file already exists: %s, set overwrite=true to replace it", path)).
			WithParam("overwrite").WithOp("execute")
	}
	if parent := filepath.Dir(path); parent != "" {
		if info, err := os.Stat(parent); err != nil || !info.IsDir() {
			return "", types.NewValidationError(t.Name(),
				fmt.Sprintf("parent directory does not exist: %s", parent)).
				WithParam("file_path").WithOp("execute")
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", types.NewExecutionError(t.Name(), fmt.Sprintf("failed to write %s", path)).WithCause(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), fmt.Sprintf("failed to stat written file %s", path)).WithCause(err)
	}
	return fmt.Sprintf("Successfully wrote %d characters (%d bytes) to %s",
		len([]rune(content)), info.Size(), path), nil
}
