package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/saiyan/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads a YAML
// configuration file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The document is converted as follows:
//   - Nested mappings are flattened, joining keys with "-", so "log: {level:
//     debug}" and "log-level: debug" are equivalent
//   - Keys may spell hyphens as underscores ("log_level")
//   - Sequences become comma-separated lists
//   - Numbers become their decimal text
//
// Example config file:
//
//	log:
//	  level: debug
//	  pretty: false
//	source:
//	  - prelude.sai
//
// Command-line flags override config file values. A file that does not decode
// as a YAML mapping is logged and ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if nested, ok := value.(map[string]any); ok {
			c.flatten(key, nested)

			continue
		}

		c[key] = scalar(value)
	}
}

// scalar converts a decoded YAML value into the form kong parses. Booleans
// pass through; everything else becomes text.
func scalar(value any) any {
	switch v := value.(type) {
	case nil, bool, string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, fmt.Sprint(scalar(item)))
		}

		return strings.Join(items, ",")
	default:
		return fmt.Sprint(v)
	}
}
