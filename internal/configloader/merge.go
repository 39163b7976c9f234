package configloader

import "github.com/yaklabco/mdtree/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer values: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Parse.MaxDepth != 0 {
		result.Parse.MaxDepth = override.Parse.MaxDepth
	}
	if override.Output.Format != "" {
		result.Output.Format = override.Output.Format
	}
	if override.Output.Indent != 0 {
		result.Output.Indent = override.Output.Indent
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.OutDir != "" {
		result.OutDir = override.OutDir
	}

	// Booleans can only be switched on by an override, since false is
	// indistinguishable from unset. Options that default to true are
	// pointers instead.
	if override.Parse.Pedantic {
		result.Parse.Pedantic = true
	}
	if override.Parse.Smartypants {
		result.Parse.Smartypants = true
	}
	if override.Parse.Breaks {
		result.Parse.Breaks = true
	}
	if override.Tokenizer.DetectLanguage {
		result.Tokenizer.DetectLanguage = true
	}

	if override.Parse.Mangle != nil {
		result.Parse.Mangle = config.Bool(*override.Parse.Mangle)
	}
	if override.Tokenizer.FrontMatter != nil {
		result.Tokenizer.FrontMatter = config.Bool(*override.Tokenizer.FrontMatter)
	}

	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
