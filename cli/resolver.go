package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/scss/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration
// files. Flag values are read from the mapping under key, or from the top
// level when the document has no such key:
//
//	config:
//	  style: compressed
//	  load-path: [vendor, node_modules]
//	  define:
//	    gutter: 12px
//
// Keys may spell the flag with hyphens or underscores. Command-line flags
// override configuration values. A file that is not valid YAML configures
// nothing.
func resolve(key string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if err != io.EOF {
				log.Warn("ignoring invalid configuration", slog.Any("error", err))
			}

			return config{}, nil
		}

		if sub, ok := doc[key].(map[string]any); ok {
			doc = sub
		}

		return newConfig(doc), nil
	}
}

// config implements [kong.Resolver] over flag values keyed by name.
type config map[string]any

func newConfig(m map[string]any) config {
	c := make(config, len(m))

	for k, v := range m {
		c[strings.ReplaceAll(k, "_", "-")] = flagInput(v)
	}

	return c
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. Unknown flags resolve to nil, which
// leaves the default in place.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}

// flagInput converts a decoded YAML value to what kong's mappers accept:
// scalars as strings except booleans, sequences as []any and mappings as
// map[string]any of strings.
func flagInput(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case bool:
		return v
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = fmt.Sprint(flagInput(item))
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = fmt.Sprint(flagInput(item))
		}

		return out
	default:
		return fmt.Sprint(v)
	}
}
