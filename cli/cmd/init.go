package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/saiyan/log"
	"github.com/ardnew/saiyan/profile"
)

// configIndent is the YAML indent of a generated configuration file.
const configIndent = 2

// Init writes a configuration file holding the current value of every global
// flag.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	path := kongVar(ctx, ConfigIdentifier, "")
	if path == "" {
		panic("internal error: configuration path undefined")
	}

	_, err = os.Stat(path)
	if err == nil && !i.Force {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(ErrFileExists)
	}

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	data, err := yaml.MarshalContext(ctx, flagValues(ktx), yaml.Indent(configIndent))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path),
		slog.Int("bytes", len(data)))

	return nil
}

// flagValues maps the name of each configurable flag to its current value.
// Help, version, and profiling flags are left out, as are empty values.
func flagValues(ktx *kong.Context) map[string]any {
	ignore := []string{"help", "version", profile.Tag}
	values := make(map[string]any)

	for _, flag := range ktx.Flags() {
		if flag.Hidden || hasAnyPrefix(flag.Name, ignore) {
			continue
		}

		val := ktx.FlagValue(flag)
		if val == nil {
			continue
		}

		rv := reflect.ValueOf(val)
		switch rv.Kind() {
		case reflect.String, reflect.Slice, reflect.Map:
			if rv.Len() == 0 {
				continue
			}
		}

		// Named string types (e.g. log levels) encode as plain strings.
		if rv.Kind() == reflect.String {
			val = rv.String()
		}

		values[flag.Name] = val
	}

	return values
}

func hasAnyPrefix(s string, prefix []string) bool {
	for _, p := range prefix {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}
