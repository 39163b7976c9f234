package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/mdtree/pkg/config"
)

// envVarPrefix is the prefix for all mdtree environment variables.
const envVarPrefix = "MDTREE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	usage string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":          {"flavor", envTypeString, "Markdown flavor: commonmark or gfm"},
	"FORMAT":          {"output.format", envTypeString, "Output format: json, yaml, or tree"},
	"OUT_DIR":         {"out_dir", envTypeString, "Directory for per-file output"},
	"PEDANTIC":        {"parse.pedantic", envTypeBool, "Original strong/em grammar: true or false"},
	"SMARTYPANTS":     {"parse.smartypants", envTypeBool, "Typographic punctuation: true or false"},
	"BREAKS":          {"parse.breaks", envTypeBool, "Single newlines become hard breaks: true or false"},
	"MANGLE":          {"parse.mangle", envTypeBool, "Obfuscate email autolinks: true or false"},
	"FRONT_MATTER":    {"tokenizer.front_matter", envTypeBool, "Split off front matter: true or false"},
	"DETECT_LANGUAGE": {"tokenizer.detect_language", envTypeBool, "Guess code block languages: true or false"},
	"MAX_DEPTH":       {"parse.max_depth", envTypeInt, "Maximum nesting depth"},
	"INDENT":          {"output.indent", envTypeInt, "Output indentation width"},
	"JOBS":            {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"IGNORE":          {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDTREE_ (e.g., MDTREE_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "output.format":
		cfg.Output.Format = config.OutputFormat(value)
	case "out_dir":
		cfg.OutDir = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field. Unlike file and flag merging,
// environment values can switch options off.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "parse.pedantic":
		cfg.Parse.Pedantic = value
	case "parse.smartypants":
		cfg.Parse.Smartypants = value
	case "parse.breaks":
		cfg.Parse.Breaks = value
	case "parse.mangle":
		cfg.Parse.Mangle = config.Bool(value)
	case "tokenizer.front_matter":
		cfg.Tokenizer.FrontMatter = config.Bool(value)
	case "tokenizer.detect_language":
		cfg.Tokenizer.DetectLanguage = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "parse.max_depth":
		cfg.Parse.MaxDepth = value
	case "output.indent":
		cfg.Output.Indent = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.usage
	}
	return vars
}
