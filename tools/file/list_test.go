package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewkit/crewkit/types"
)

func populateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("# hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SECRET=1"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	return dir
}

func TestListTool_Defaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := populateDir(t)
	tool := NewListTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"directory_path": dir})
	require.NoError(t, err)
	assert.Contains(t, out, "DIR: sub")
	assert.Contains(t, out, "FILE: readme.md (4 bytes)")
	assert.Contains(t, out, "FILE: main.go")
	assert.NotContains(t, out, ".env", "hidden entries excluded by default")
	assert.Contains(t, out, "Total items: 3")
}

func TestListTool_IncludeHidden(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := populateDir(t)
	tool := NewListTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"directory_path": dir, "include_hidden": true})
	require.NoError(t, err)
	assert.Contains(t, out, ".env")
	assert.Contains(t, out, "Total items: 4")
}

func TestListTool_ExtensionFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := populateDir(t)
	tool := NewListTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"directory_path": dir, "extensions": "go"})
	require.NoError(t, err)
	assert.Contains(t, out, "main.go")
	assert.NotContains(t, out, "readme.md")
	assert.Contains(t, out, "DIR: sub", "directories are not filtered")
}

func TestListTool_EmptyDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewListTool(nil)

	out, err := tool.Invoke(ctx, types.Args{"directory_path": t.TempDir()})
	require.NoError(t, err)
	assert.Contains(t, out, "is empty")
}

func TestListTool_MissingDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tool := NewListTool(nil)

	_, err := tool.Invoke(ctx, types.Args{"directory_path": filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
	assert.True(t, types.IsExecution(err))
}
