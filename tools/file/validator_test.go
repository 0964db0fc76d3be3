package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewkit/crewkit/types"
)

func TestValidatorTool_ValidJSON(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := writeTemp(t, "data.json", `{"a": 1}`)
	tool := NewValidatorTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"file_path": path})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "VALID:"), out)
	assert.Contains(t, out, "[ok] file exists")
	assert.Contains(t, out, "[ok] valid JSON syntax")
	assert.Contains(t, out, "[info] file size: 8 bytes")
}

func TestValidatorTool_InvalidJSONSyntax(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := writeTemp(t, "broken.json", `{"a":`)
	tool := NewValidatorTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"file_path": path})
	require.NoError(t, err, "failed checks are verdicts, not errors")
	assert.Contains(t, out, "INVALID:")
	assert.Contains(t, out, "[fail] invalid JSON syntax")
}

func TestValidatorTool_ExpectedTypeMatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := writeTemp(t, "rows.csv", "id,name\n1,a\n")
	tool := NewValidatorTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"file_path": path, "expected_type": "csv"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "VALID:"), out)
	assert.Contains(t, out, "[ok] file type matches expected: csv")
	assert.Contains(t, out, "[ok] valid CSV format")
}

func TestValidatorTool_ExpectedTypeMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := writeTemp(t, "notes.txt", "hello")
	tool := NewValidatorTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"file_path": path, "expected_type": ".json"})
	require.NoError(t, err)
	assert.Contains(t, out, "INVALID:")
	assert.Contains(t, out, "[fail] file type mismatch: expected .json, got .txt")
	assert.Contains(t, out, "[ok] file is readable as text")
}

func TestValidatorTool_SkipContentCheck(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := writeTemp(t, "broken.json", `{"a":`)
	tool := NewValidatorTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"file_path": path, "check_content": false})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "VALID:"), out)
	assert.NotContains(t, out, "JSON syntax")
}

func TestValidatorTool_BinaryFileRejectedAsText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x81}, 0o644))
	tool := NewValidatorTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"file_path": path})
	require.NoError(t, err)
	assert.Contains(t, out, "INVALID:")
	assert.Contains(t, out, "[fail] file is not valid text")
}

func TestValidatorTool_MissingFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewValidatorTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"file_path": filepath.Join(t.TempDir(), "absent.txt")})
	require.NoError(t, err)
	assert.Contains(t, out, "INVALID: file does not exist")
}

func TestValidatorTool_DirectoryRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewValidatorTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"file_path": t.TempDir()})
	require.NoError(t, err)
	assert.Contains(t, out, "INVALID: path is not a file")
}
