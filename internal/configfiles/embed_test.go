package configfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verustcode/doctest/internal/capture"
	"github.com/verustcode/doctest/internal/config"
)

func TestGetConfigExample(t *testing.T) {
	content, err := GetConfigExample()
	require.NoError(t, err)
	require.NotEmpty(t, content)

	path := filepath.Join(t.TempDir(), "doctest.yaml")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Output, cfg.Output)
	assert.Equal(t, config.Default().Server, cfg.Server)
}

func TestGetCaptureExample(t *testing.T) {
	content, err := GetCaptureExample()
	require.NoError(t, err)

	c, err := capture.Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "example", c.Name)
	assert.Len(t, c.Items, 7)
}
