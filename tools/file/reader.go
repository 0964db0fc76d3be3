// Package file provides filesystem tools: reading, writing and listing with
// safety limits.
package file

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

const (
	csvPreviewRows   = 100
	bytesPerMegabyte = 1024 * 1024
)

// ReaderConfig configures the file reader tool.
type ReaderConfig struct {
	// DefaultMaxSizeMB caps readable file size; callers may lower it per
	// call via the max_size_mb argument but never raise it past this.
	DefaultMaxSizeMB float64       `json:"default_max_size_mb"`
	CacheTTL         time.Duration `json:"cache_ttl"`
}

// DefaultReaderConfig returns sensible defaults.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		DefaultMaxSizeMB: 10,
		CacheTTL:         time.Minute,
	}
}

type readerTool struct {
	config ReaderConfig
}

// NewReaderTool creates an instrumented file reader. Results are cached with
// a short TTL since files may change between calls.
func NewReaderTool(config ReaderConfig, logger *zap.Logger, opts ...tools.Option) *tools.Instrumented {
	if config.DefaultMaxSizeMB <= 0 {
		config.DefaultMaxSizeMB = DefaultReaderConfig().DefaultMaxSizeMB
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultReaderConfig().CacheTTL
	}
	opts = append([]tools.Option{tools.WithLogger(logger), tools.WithTTL(config.CacheTTL)}, opts...)
	return tools.NewInstrumented(&readerTool{config: config}, opts...)
}

func (t *readerTool) Name() string { return "file_reader" }

func (t *readerTool) Description() string {
	return "Reads and returns the content of text, JSON, YAML or CSV files " +
		"with file-size safety checks. Use this to load file contents for " +
		"analysis or processing."
}

func (t *readerTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("file_path", types.StringParam("Path to the file to read", true)).
		Add("max_size_mb", types.FloatParam("Maximum file size in MB", false).
			WithDefault(t.config.DefaultMaxSizeMB).
			WithRange(0.001, 1024))
}

func (t *readerTool) Cacheable() bool { return true }

func (t *readerTool) Execute(_ context.Context, args types.Args) (string, error) {
	path := args["file_path"].(string)
	maxSizeMB := args["max_size_mb"].(float64)
	if maxSizeMB > t.config.DefaultMaxSizeMB {
		maxSizeMB = t.config.DefaultMaxSizeMB
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), fmt.Sprintf("cannot stat %s", path)).WithCause(err)
	}
	if info.IsDir() {
		return "", types.NewExecutionError(t.Name(), fmt.Sprintf("path is not a file: %s", path))
	}
	if sizeMB := float64(info.Size()) / bytesPerMegabyte; sizeMB > maxSizeMB {
		return "", types.NewExecutionError(t.Name(),
			fmt.Sprintf("file too large: %.2fMB > %.2fMB limit", sizeMB, maxSizeMB))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.NewExecutionError(t.Name(), fmt.Sprintf("failed to read %s", path)).WithCause(err)
	}

	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return renderJSON(t.Name(), name, data)
	case ".yaml", ".yml":
		return renderYAML(t.Name(), name, data)
	case ".csv":
		return renderCSV(t.Name(), name, data)
	default:
		return fmt.Sprintf("File: %s\nContent:\n%s", name, string(data)), nil
	}
}

func renderJSON(tool, name string, data []byte) (string, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", types.NewExecutionError(tool, fmt.Sprintf("invalid JSON in %s", name)).WithCause(err)
	}
	formatted, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return "", types.NewExecutionError(tool, fmt.Sprintf("failed to format JSON from %s", name)).WithCause(err)
	}
	return fmt.Sprintf("JSON File: %s\n%s", name, formatted), nil
}

func renderYAML(tool, name string, data []byte) (string, error) {
	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return "", types.NewExecutionError(tool, fmt.Sprintf("invalid YAML in %s", name)).WithCause(err)
	}
	formatted, err := yaml.Marshal(parsed)
	if err != nil {
		return "", types.NewExecutionError(tool, fmt.Sprintf("failed to format YAML from %s", name)).WithCause(err)
	}
	return fmt.Sprintf("YAML File: %s\n%s", name, formatted), nil
}

func renderCSV(tool, name string, data []byte) (string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	var sb strings.Builder
	fmt.Fprintf(&sb, "CSV File: %s\n", name)

	rows := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", types.NewExecutionError(tool, fmt.Sprintf("invalid CSV in %s", name)).WithCause(err)
		}
		sb.WriteString(strings.Join(record, " | "))
		sb.WriteByte('\n')
		rows++
		if rows >= csvPreviewRows {
			sb.WriteString("... (truncated after 100 rows)\n")
			break
		}
	}
	if rows == 0 {
		return fmt.Sprintf("CSV File: %s\n(Empty file)", name), nil
	}
	return sb.String(), nil
}

// sortedExtensions normalizes a comma-separated extension filter.
func sortedExtensions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		exts = append(exts, p)
	}
	sort.Strings(exts)
	return exts
}
