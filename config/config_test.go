package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/bib/bibtex/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Nil(t, cfg.Formatting.LineLength)
	assert.Equal(t, parser.DefaultMaxDepth, cfg.Parser.MaxDepth)

	opts := cfg.FormatOptions()
	assert.Equal(t, 80, opts.LineLength)
	assert.Equal(t, 4, opts.TabSize)
	assert.True(t, opts.InsertSpaces)
	assert.Len(t, cfg.ParserOptions(), 1)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := []byte("formatting:\n  lineLength: 0\nparser:\n  maxDepth: 32\nlog:\n  verbosity: 2\n  file: bib.log\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Formatting.LineLength)
	assert.Equal(t, 0, *cfg.Formatting.LineLength)
	assert.Equal(t, 0, cfg.FormatOptions().LineLength)
	assert.Equal(t, 32, cfg.Parser.MaxDepth)
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.Equal(t, "bib.log", cfg.Log.File)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("log:\n  verbosity: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, parser.DefaultMaxDepth, cfg.Parser.MaxDepth)
	assert.Equal(t, 80, cfg.FormatOptions().LineLength)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("formatting: [unclosed"))
	assert.Error(t, err)

	_, err = Parse([]byte("formatting:\n  lineLength: -1\n"))
	assert.ErrorContains(t, err, "lineLength")
}

func TestFromSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings any
		want     int
	}{
		{"nil settings", nil, 80},
		{"wrapped section", map[string]any{"bibtex": map[string]any{"formatting": map[string]any{"lineLength": 120}}}, 120},
		{"bare settings", map[string]any{"formatting": map[string]any{"lineLength": 0}}, 0},
		{"unrelated settings", map[string]any{"editor": true}, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromSettings(tt.settings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.FormatOptions().LineLength)
		})
	}
}

func TestMergeKeepsPreviousOnError(t *testing.T) {
	width := 100
	base := Default()
	base.Formatting.LineLength = &width

	merged, err := base.Merge(map[string]any{"formatting": map[string]any{"lineLength": "wide"}})
	assert.Error(t, err)
	assert.Equal(t, 100, merged.FormatOptions().LineLength)

	merged, err = base.Merge(map[string]any{"parser": map[string]any{"maxDepth": 8}})
	require.NoError(t, err)
	assert.Equal(t, 100, merged.FormatOptions().LineLength)
	assert.Equal(t, 8, merged.Parser.MaxDepth)
}
