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
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/crewkit/crewkit/tools"
	"github.com/crewkit/crewkit/types"
)

type validatorTool struct{}

// NewValidatorTool creates an instrumented file validator. Failed checks are
// reported in the output, not as errors, so agents can branch on the verdict.
func NewValidatorTool(logger *zap.Logger, opts ...tools.Option) *tools.Instrumented {
	opts = append([]tools.Option{tools.WithLogger(logger), tools.WithTTL(time.Minute)}, opts...)
	return tools.NewInstrumented(&validatorTool{}, opts...)
}

func (t *validatorTool) Name() string { return "file_validator" }

func (t *validatorTool) Description() string {
	return "Validates file existence, type and optionally content structure. " +
		"Can check JSON syntax, CSV format and text readability. Use this " +
		"to ensure files meet expected criteria before processing."
}

func (t *validatorTool) Schema() types.ParameterSchema {
	return types.NewSchema().
		Add("file_path", types.StringParam("Path to the file to validate", true)).
		Add("expected_type", types.StringParam(
			"Expected file type, e.g. \"json\" or \".csv\"", false).
			WithDefault("")).
		Add("check_content", types.BoolParam(
			"Whether to validate file content structure", false).
			WithDefault(true))
}

func (t *validatorTool) Cacheable() bool { return true }

func (t *validatorTool) Execute(_ context.Context, args types.Args) (string, error) {
	path := args["file_path"].(string)
	expectedType := args["expected_type"].(string)
	checkContent := args["check_content"].(bool)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Sprintf("INVALID: file does not exist: %s", path), nil
	}
	if info.IsDir() {
		return fmt.Sprintf("INVALID: path is not a file: %s", path), nil
	}

	var checks []string
	failed := false
	checks = append(checks, "[ok] file exists")

	ext := strings.ToLower(filepath.Ext(path))
	if expectedType != "" {
		expected := strings.ToLower(expectedType)
		if !strings.HasPrefix(expected, ".") {
			expected = "." + expected
		}
		if ext == expected {
			checks = append(checks, fmt.Sprintf("[ok] file type matches expected: %s", expectedType))
		} else {
			failed = true
			checks = append(checks, fmt.Sprintf("[fail] file type mismatch: expected %s, got %s", expected, ext))
		}
	}

	if checkContent {
		result, ok := validateContent(path, ext)
		failed = failed || !ok
		checks = append(checks, result)
	}

	checks = append(checks, fmt.Sprintf("[info] file size: %d bytes (%.2f KB)",
		info.Size(), float64(info.Size())/1024))

	status := "VALID"
	if failed {
		status = "INVALID"
	}
	return fmt.Sprintf("%s: %s\n%s", status, path, strings.Join(checks, "\n")), nil
}

// validateContent checks the structure appropriate for the extension:
// JSON must parse, CSV must yield a first record, anything else must be
// valid UTF-8 text in its first kilobyte.
func validateContent(path, ext string) (string, bool) {
	switch ext {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Sprintf("[fail] content validation failed: %v", err), false
		}
		var parsed any
		if err := json.Unmarshal(data, &parsed); err != nil {
			return "[fail] invalid JSON syntax", false
		}
		return "[ok] valid JSON syntax", true

	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return fmt.Sprintf("[fail] content validation failed: %v", err), false
		}
		defer f.Close()
		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		if _, err := reader.Read(); err != nil {
			return fmt.Sprintf("[fail] CSV format error: %v", err), false
		}
		return "[ok] valid CSV format", true

	default:
		f, err := os.Open(path)
		if err != nil {
			return fmt.Sprintf("[fail] content validation failed: %v", err), false
		}
		defer f.Close()
		buf := make([]byte, 1024)
		n, err := f.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Sprintf("[fail] content validation failed: %v", err), false
		}
		if !utf8.Valid(buf[:n]) {
			return "[fail] file is not valid text (possibly binary)", false
		}
		return "[ok] file is readable as text", true
	}
}
