package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdtree/pkg/config"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.True(t, cfg.GFM())
	assert.True(t, cfg.MangleEnabled())
	assert.True(t, cfg.FrontMatterEnabled())
	assert.Equal(t, config.DefaultMaxDepth, cfg.Parse.MaxDepth)
	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.Equal(t, config.DefaultIndent, cfg.Output.Indent)
}

func TestConfig_Toggles(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	assert.True(t, cfg.MangleEnabled(), "nil mangle means enabled")
	assert.True(t, cfg.FrontMatterEnabled(), "nil front matter means enabled")
	assert.False(t, cfg.GFM())

	cfg.Parse.Mangle = config.Bool(false)
	cfg.Tokenizer.FrontMatter = config.Bool(false)
	assert.False(t, cfg.MangleEnabled())
	assert.False(t, cfg.FrontMatterEnabled())
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies pointers and slices", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		original.Ignore = []string{"*.md", "vendor/**"}
		original.Jobs = 4
		original.OutDir = "out"

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		clone.Ignore[0] = "changed"
		*clone.Parse.Mangle = false
		assert.Equal(t, "*.md", original.Ignore[0])
		assert.True(t, original.MangleEnabled())
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("defaults serialize", func(t *testing.T) {
		t.Parallel()

		data, err := config.NewConfig().ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "flavor: gfm")
		assert.Contains(t, string(data), "max_depth: 128")
		assert.Contains(t, string(data), "mangle: true")
		assert.NotContains(t, string(data), "jobs")
	})

	t.Run("header", func(t *testing.T) {
		t.Parallel()

		data, err := config.NewConfig().ToYAMLWithHeader("# mdtree")
		require.NoError(t, err)
		assert.Contains(t, string(data), "# mdtree\n\nflavor: gfm")
	})
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("parses valid YAML", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML([]byte(`
flavor: commonmark
parse:
  smartypants: true
  mangle: false
  max_depth: 16
output:
  format: tree
ignore:
  - "drafts/**"
`))
		require.NoError(t, err)
		assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
		assert.True(t, cfg.Parse.Smartypants)
		assert.False(t, cfg.MangleEnabled())
		assert.Equal(t, 16, cfg.Parse.MaxDepth)
		assert.Equal(t, config.FormatTree, cfg.Output.Format)
		assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
		assert.Nil(t, cfg.Tokenizer.FrontMatter)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("flavor: [unclosed"))
		require.Error(t, err)
	})
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("yaml round-trips to defaults", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		want := config.NewConfig()
		want.Jobs = 0
		assert.Equal(t, want, cfg)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "gfm", decoded["flavor"])
		assert.NotContains(t, decoded, "Jobs")
	})
}
