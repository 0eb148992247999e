package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	cause := stderrors.New("disk full")
	err := WrapError(cause, CategoryFileSystem, "write page").
		WithContext("path", "/out/index.html").
		Retryable().
		Build()

	assert.Equal(t, CategoryFileSystem, err.Category())
	assert.Equal(t, SeverityError, err.Severity())
	assert.True(t, err.CanRetry())
	assert.Equal(t, "write page: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	path, ok := err.Context().GetString("path")
	require.True(t, ok)
	assert.Equal(t, "/out/index.html", path)
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ClassifiedError
		category ErrorCategory
		fatal    bool
	}{
		{"config", ConfigError("x").Build(), CategoryConfig, true},
		{"permission", PermissionError("x").Build(), CategoryPermission, true},
		{"unsafe", UnsafeOverwriteError("x").Build(), CategoryUnsafeOverwrite, true},
		{"render", RenderError("x").Build(), CategoryRender, true},
		{"copy", CopyError("x").Build(), CategoryCopy, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category())
			assert.Equal(t, tt.fatal, tt.err.IsFatal())
		})
	}
}

func TestHasCategoryWalksChain(t *testing.T) {
	inner := RenderError(`error while rendering page "about"`).Build()
	outer := fmt.Errorf("generate: %w", WrapError(inner, CategoryRuntime, "run failed").Build())

	assert.True(t, HasCategory(outer, CategoryRuntime))
	assert.True(t, HasCategory(outer, CategoryRender))
	assert.False(t, HasCategory(outer, CategoryConfig))
	assert.Equal(t, CategoryRuntime, GetCategory(outer))
	assert.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := ConfigError("bad").Build()
	derived := base.WithContext("key", "value")

	_, ok := base.Context().Get("key")
	assert.False(t, ok)
	v, ok := derived.Context().GetString("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	a := NewCLIErrorAdapter(false, slog.Default())

	assert.Equal(t, 0, a.ExitCodeFor(nil))
	assert.Equal(t, 1, a.ExitCodeFor(stderrors.New("plain")))
	assert.Equal(t, 2, a.ExitCodeFor(ValidationError("x").Build()))
	assert.Equal(t, 5, a.ExitCodeFor(PermissionError("x").Build()))
	assert.Equal(t, 6, a.ExitCodeFor(UnsafeOverwriteError("x").Build()))
	assert.Equal(t, 7, a.ExitCodeFor(ConfigError("x").Build()))
	assert.Equal(t, 11, a.ExitCodeFor(fmt.Errorf("wrapped: %w", RenderError("x").Build())))
	assert.Equal(t, 10, a.ExitCodeFor(InternalError("x").Build()))
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	loud := NewCLIErrorAdapter(true, slog.Default())

	unsafe := UnsafeOverwriteError("refusing to overwrite /tmp/x").Build()
	assert.Equal(t, "Error: refusing to overwrite /tmp/x", quiet.FormatError(unsafe))

	internal := InternalError("nil host").Build()
	assert.Contains(t, quiet.FormatError(internal), "use -v")
	assert.Equal(t, "Error: nil host", loud.FormatError(internal))
	assert.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	a.out = &out
	code := -1
	a.exit = func(c int) { code = c }

	a.HandleError(ConfigError("output folder is empty").WithContext("field", "output.directory").Build())

	assert.Equal(t, 7, code)
	assert.Contains(t, out.String(), "output folder is empty")
	assert.Contains(t, logs.String(), "category=config")
	assert.Contains(t, logs.String(), "field=output.directory")
}
