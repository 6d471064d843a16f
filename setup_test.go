package main

import (
	"io"
	"testing"
	"time"

	"github.com/ccollins476ad/pixora/download"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsDefaults(t *testing.T) {
	cfg, err := parseArgs("pixora", []string{"https://example.com/a.png"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/a.png", cfg.URL)
	assert.Equal(t, download.DefaultTimeout, cfg.Timeout)
	assert.Nil(t, cfg.Auto)
	assert.False(t, cfg.FilenameSet)
	assert.False(t, cfg.Verbose)
	assert.NotEmpty(t, cfg.ConfigPath)
}

func TestParseArgsOptions(t *testing.T) {
	args := []string{"-v", "-o", "/pics", "-n", "vacation", "-auto=false", "-timeout", "3s", "-config", "/tmp/c.json"}
	cfg, err := parseArgs("pixora", args, io.Discard)
	require.NoError(t, err)

	assert.Empty(t, cfg.URL)
	assert.Equal(t, "/pics", cfg.Folder)
	assert.Equal(t, "vacation", cfg.Filename)
	assert.True(t, cfg.FilenameSet)
	require.NotNil(t, cfg.Auto)
	assert.False(t, *cfg.Auto)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/c.json", cfg.ConfigPath)
	assert.True(t, cfg.Verbose)
}

func TestParseArgsErrors(t *testing.T) {
	_, err := parseArgs("pixora", []string{"a", "b"}, io.Discard)
	assert.Error(t, err)

	_, err = parseArgs("pixora", []string{"-bogus"}, io.Discard)
	assert.Error(t, err)
}
