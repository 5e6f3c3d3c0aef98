package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// configSection is the optional top-level key grouping extraction settings.
const configSection = "extract_items"

// configAliases maps legacy setting names to flag names.
var configAliases = map[string]string{
	"filings_metadata_file":    "metadata",
	"raw_filings_folder":       "raw-dir",
	"extracted_filings_folder": "out-dir",
	"companies_info_file":      "companies",
}

// ConfigLoader reads a YAML (or JSON) config file into a kong resolver.
// Keys are flag names with dashes or underscores. Settings may also sit
// under an "extract_items" section; top-level keys win over the section.
func ConfigLoader(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	values := make(map[string]any)
	if section, ok := doc[configSection].(map[string]any); ok {
		addConfigValues(values, section)
	}
	addConfigValues(values, doc)

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		raw, ok := values[flag.Name]
		if !ok {
			return nil, nil
		}
		return configValue(raw), nil
	}
	return f, nil
}

// addConfigValues copies src into dst keyed by flag name. Aliased keys are
// applied first so a flag name set in the same map always wins.
func addConfigValues(dst, src map[string]any) {
	for key, value := range src {
		if alias, ok := configAliases[key]; ok {
			dst[alias] = value
		}
	}
	for key, value := range src {
		if key == configSection {
			continue
		}
		if _, ok := configAliases[key]; ok {
			continue
		}
		dst[strings.ReplaceAll(key, "_", "-")] = value
	}
}

// configValue renders a decoded value as the string a flag would receive.
// Lists become comma-separated. Nil and empty lists stay nil so the flag
// keeps its default.
func configValue(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return v
	case []any:
		if len(v) == 0 {
			return nil
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}
