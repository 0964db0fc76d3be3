package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

type listTool struct{}

// NewListTool creates an instrumented directory lister.
func NewListTool(logger *zap.Logger, opts ...tools.Option) *tools.Instrumented {
	opts = append([]tools.Option{tools.WithLogger(logger), tools.WithTTL(time.Minute)}, opts...)
	return tools.NewInstrumented(&listTool{}, opts...)
}

func (t *listTool) Name() string { return "directory_list" }

func (t *listTool) Description() string {
	return "Lists the contents of a directory, optionally filtered by file " +
		"extension and including hidden entries. Use this to explore " +
		"directory structure or find specific file types."
}

func (t *listTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("directory_path", types.StringParam("Path to the directory to list", true)).
		Add("include_hidden", types.BoolParam("Include hidden files and directories", false).
			WithDefault(false)).
		Add("extensions", types.StringParam(
			"Comma-separated extension filter, e.g. \".txt,.md\"", false).
			WithDefault(""))
}

func (t *listTool) Cacheable() bool { return true }

func (t *listTool) Execute(_ context.Context, args types.Args) (string, error) {
	dir := args["directory_path"].(string)
	includeHidden := args["include_hidden"].(bool)
	filter := sortedExtensions(args["extensions"].(string))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), fmt.Sprintf("cannot list %s", dir)).WithCause(err)
	}

	items := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !includeHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.IsDir() {
			items = append(items, fmt.Sprintf("DIR: %s", entry.Name()))
			continue
		}
		if len(filter) > 0 {
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if !slices.Contains(filter, ext) {
				continue
			}
		}
		info, err := entry.Info()
		if err != nil {
			return "", types.NewExecutionError(t.Name(),
				fmt.Sprintf("cannot stat %s", entry.Name())).WithCause(err)
		}
		items = append(items, fmt.Sprintf("FILE: %s (%d bytes)", entry.Name(), info.Size()))
	}

	if len(items) == 0 {
		return fmt.Sprintf("Directory %q is empty (with current filters)", dir), nil
	}

	sort.Strings(items)
	return fmt.Sprintf("Contents of %q:\n%s\n\nTotal items: %d",
		dir, strings.Join(items, "\n"), len(items)), nil
}
